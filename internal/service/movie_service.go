package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/user/filmes/internal/model"
	"github.com/user/filmes/internal/utils"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var (
	ErrMovieNotFound       = errors.New("movie not found")
	ErrDuplicateTitle      = errors.New("duplicate movie title")
	ErrUnknownGenre        = errors.New("unknown genre")
	ErrUnknownLanguage     = errors.New("unknown language")
	ErrInvalidReleaseDate  = errors.New("invalid release date")
	errUnexpectedCacheType = errors.New("unexpected cached value type")
)

const (
	listCacheKey    = "movies:list"
	listLoadTimeout = 10 * time.Second
)

// MovieStore 电影存储
type MovieStore interface {
	ListOrderedByTitle(ctx context.Context) ([]*model.Movie, error)
	FindByTitleInsensitive(ctx context.Context, title string) (*model.Movie, error)
	FindByID(ctx context.Context, id int) (*model.Movie, error)
	Create(ctx context.Context, movie *model.Movie) error
	Update(ctx context.Context, id int, fields map[string]interface{}) error
	Count(ctx context.Context) (int64, error)
}

// MovieService 电影业务逻辑
type MovieService struct {
	movies MovieStore
	refs   *ReferenceChecker
	log    zerolog.Logger

	listCache *cache.Cache
	listTTL   time.Duration
	group     singleflight.Group

	// 每次写入后递增，加载期间发生写入的结果不回填缓存
	mu      sync.Mutex
	listGen uint64
}

// NewMovieService listTTL 为 0 时不缓存列表
func NewMovieService(movies MovieStore, refs *ReferenceChecker, listTTL time.Duration, log zerolog.Logger) *MovieService {
	return &MovieService{
		movies:    movies,
		refs:      refs,
		log:       log.With().Str("component", "movie_service").Logger(),
		listCache: cache.New(listTTL, 2*listTTL+time.Minute),
		listTTL:   listTTL,
	}
}

// List 按标题升序返回全部电影
func (s *MovieService) List(ctx context.Context) ([]*model.Movie, error) {
	if s.listTTL > 0 {
		if cached, ok := s.listCache.Get(listCacheKey); ok {
			if movies, ok := cached.([]*model.Movie); ok {
				return movies, nil
			}
		}
	}

	s.mu.Lock()
	gen := s.listGen
	s.mu.Unlock()

	// 并发未命中只查一次库，共享查询不受单个请求取消的影响
	ch := s.group.DoChan(listCacheKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), listLoadTimeout)
		defer cancel()

		movies, err := s.movies.ListOrderedByTitle(loadCtx)
		if err != nil {
			return nil, fmt.Errorf("查询电影列表失败: %w", err)
		}
		if s.listTTL > 0 {
			s.mu.Lock()
			if s.listGen == gen {
				s.listCache.Set(listCacheKey, movies, s.listTTL)
			}
			s.mu.Unlock()
		}
		return movies, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	movies, ok := res.Val.([]*model.Movie)
	if !ok {
		return nil, errUnexpectedCacheType
	}
	return movies, nil
}

// Count 电影总数，不走缓存
func (s *MovieService) Count(ctx context.Context) (int64, error) {
	return s.movies.Count(ctx)
}

// Create 标题忽略大小写重复时返回 ErrDuplicateTitle
// 查重与插入之间没有事务，并发请求仍可能写入同名电影
func (s *MovieService) Create(ctx context.Context, req *model.CreateMovieRequest) (*model.Movie, error) {
	releaseDate, err := utils.ParseDate(req.ReleaseDate)
	if err != nil {
		return nil, ErrInvalidReleaseDate
	}

	existing, err := s.movies.FindByTitleInsensitive(ctx, req.Title)
	if err != nil {
		return nil, fmt.Errorf("查询同名电影失败: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateTitle
	}

	if err := s.checkReferences(ctx, &req.GenreID, &req.LanguageID); err != nil {
		return nil, err
	}

	movie := &model.Movie{
		Title:       req.Title,
		GenreID:     req.GenreID,
		LanguageID:  req.LanguageID,
		OscarCount:  req.OscarCount,
		ReleaseDate: &releaseDate,
	}
	if err := s.movies.Create(ctx, movie); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("写入电影失败: %w", err)
	}

	s.invalidateList()
	s.log.Info().Int("movie_id", movie.ID).Str("title", movie.Title).Msg("电影已创建")
	return movie, nil
}

// Update 只写入请求中出现的字段；release_date 缺省或为空时保持原值
func (s *MovieService) Update(ctx context.Context, id int, req *model.UpdateMovieRequest) error {
	movie, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("查询电影失败: %w", err)
	}
	if movie == nil {
		return ErrMovieNotFound
	}

	fields := map[string]interface{}{}

	if req.ReleaseDate != nil && *req.ReleaseDate != "" {
		releaseDate, err := utils.ParseDate(*req.ReleaseDate)
		if err != nil {
			return ErrInvalidReleaseDate
		}
		fields["release_date"] = releaseDate
	}

	if req.Title != nil {
		other, err := s.movies.FindByTitleInsensitive(ctx, *req.Title)
		if err != nil {
			return fmt.Errorf("查询同名电影失败: %w", err)
		}
		if other != nil && other.ID != movie.ID {
			return ErrDuplicateTitle
		}
		fields["title"] = *req.Title
	}

	if err := s.checkReferences(ctx, req.GenreID, req.LanguageID); err != nil {
		return err
	}
	if req.GenreID != nil {
		fields["genre_id"] = *req.GenreID
	}
	if req.LanguageID != nil {
		fields["language_id"] = *req.LanguageID
	}
	if req.OscarCount != nil {
		fields["oscar_count"] = *req.OscarCount
	}

	if len(fields) == 0 {
		return nil
	}

	if err := s.movies.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("更新电影失败: %w", err)
	}

	s.invalidateList()
	s.log.Info().Int("movie_id", id).Int("fields", len(fields)).Msg("电影已更新")
	return nil
}

func (s *MovieService) checkReferences(ctx context.Context, genreID, languageID *int) error {
	if s.refs == nil {
		return nil
	}
	if genreID != nil {
		ok, err := s.refs.GenreExists(ctx, *genreID)
		if err != nil {
			return fmt.Errorf("查询类型失败: %w", err)
		}
		if !ok {
			return ErrUnknownGenre
		}
	}
	if languageID != nil {
		ok, err := s.refs.LanguageExists(ctx, *languageID)
		if err != nil {
			return fmt.Errorf("查询语言失败: %w", err)
		}
		if !ok {
			return ErrUnknownLanguage
		}
	}
	return nil
}

func (s *MovieService) invalidateList() {
	s.mu.Lock()
	s.listGen++
	s.listCache.Delete(listCacheKey)
	s.mu.Unlock()
	s.group.Forget(listCacheKey)
}
