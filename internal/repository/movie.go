package repository

import (
	"context"
	"errors"

	"github.com/user/filmes/internal/model"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// ListOrderedByTitle 按标题升序返回全部电影，附带类型和语言
func (r *MovieRepository) ListOrderedByTitle(ctx context.Context) ([]*model.Movie, error) {
	movies := []*model.Movie{}
	err := r.db.WithContext(ctx).
		Preload("Genre").
		Preload("Language").
		Order("title ASC").
		Find(&movies).Error
	return movies, err
}

// FindByTitleInsensitive 忽略大小写按标题查找
func (r *MovieRepository) FindByTitleInsensitive(ctx context.Context, title string) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).
		Where("LOWER(title) = LOWER(?)", title).
		Order("id ASC").
		First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// FindByID 根据 ID 查找电影
func (r *MovieRepository) FindByID(ctx context.Context, id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// Create 创建电影
func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Omit("Genre", "Language").Create(movie).Error
}

// Update 只更新 fields 中出现的列
func (r *MovieRepository) Update(ctx context.Context, id int, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", id).Updates(fields).Error
}

// Count 电影总数
func (r *MovieRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Movie{}).Count(&count).Error
	return count, err
}
