package model

import (
	"time"
)

// Movie 电影
type Movie struct {
	ID          int        `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null;index"`
	GenreID     int        `json:"genre_id" gorm:"index"`
	LanguageID  int        `json:"language_id" gorm:"index"`
	OscarCount  int        `json:"oscar_count" gorm:"not null;default:0"`
	ReleaseDate *time.Time `json:"release_date" gorm:"type:date"`

	// 关联查询时填充，JSON 键沿用对外接口的 genres / language
	Genre    *Genre    `json:"genres,omitempty" gorm:"foreignKey:GenreID"`
	Language *Language `json:"language,omitempty" gorm:"foreignKey:LanguageID"`
}

// CreateMovieRequest 新建电影请求体
type CreateMovieRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	GenreID     int    `json:"genre_id" binding:"required,gt=0"`
	LanguageID  int    `json:"language_id" binding:"required,gt=0"`
	OscarCount  int    `json:"oscar_count" binding:"gte=0"`
	ReleaseDate string `json:"release_date" binding:"required"`
}

// UpdateMovieRequest 更新电影请求体，未出现的字段保持不变
type UpdateMovieRequest struct {
	Title       *string `json:"title" binding:"omitnil,min=1,max=255"`
	GenreID     *int    `json:"genre_id" binding:"omitnil,gt=0"`
	LanguageID  *int    `json:"language_id" binding:"omitnil,gt=0"`
	OscarCount  *int    `json:"oscar_count" binding:"omitnil,gte=0"`
	ReleaseDate *string `json:"release_date"`
}

// IsEmpty 请求中没有任何可更新字段
func (r *UpdateMovieRequest) IsEmpty() bool {
	return r.Title == nil && r.GenreID == nil && r.LanguageID == nil &&
		r.OscarCount == nil && (r.ReleaseDate == nil || *r.ReleaseDate == "")
}
