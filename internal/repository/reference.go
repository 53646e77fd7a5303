package repository

import (
	"context"

	"github.com/user/filmes/internal/model"
	"gorm.io/gorm"
)

// ReferenceRepository 类型与语言的只读查询
type ReferenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository 创建引用数据仓库
func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// GenreExists 类型是否存在
func (r *ReferenceRepository) GenreExists(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, &model.Genre{}, id)
}

// LanguageExists 语言是否存在
func (r *ReferenceRepository) LanguageExists(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, &model.Language{}, id)
}

func (r *ReferenceRepository) exists(ctx context.Context, m interface{}, id int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(m).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
