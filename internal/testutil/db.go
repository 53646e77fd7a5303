// Package testutil 测试共用的数据库夹具
package testutil

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/user/filmes/internal/model"
	"github.com/user/filmes/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// 种子数据中的类型与语言 ID
const (
	GenreDrama     = 1
	GenreSciFi     = 2
	LanguageEN     = 1
	LanguagePT     = 2
	MissingGenreID = 99
)

// SetupDB 创建迁移好的内存 SQLite 数据库并写入类型、语言种子数据
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repository.Open(sqlite.Open(":memory:"), zerolog.Nop())
	require.NoError(t, err)

	// 内存库每个连接都是独立的数据库，只能保留一个连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.Migrate(db))

	require.NoError(t, db.Create(&[]model.Genre{
		{ID: GenreDrama, Name: "Drama"},
		{ID: GenreSciFi, Name: "Ficção Científica"},
	}).Error)
	require.NoError(t, db.Create(&[]model.Language{
		{ID: LanguageEN, Name: "Inglês"},
		{ID: LanguagePT, Name: "Português"},
	}).Error)

	return db
}

// Date 构造 UTC 零点日期
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// SeedMovie 直接写入一部电影
func SeedMovie(t *testing.T, db *gorm.DB, title string, oscars int, release *time.Time) *model.Movie {
	t.Helper()

	movie := &model.Movie{
		Title:       title,
		GenreID:     GenreSciFi,
		LanguageID:  LanguageEN,
		OscarCount:  oscars,
		ReleaseDate: release,
	}
	require.NoError(t, db.Create(movie).Error)
	return movie
}
