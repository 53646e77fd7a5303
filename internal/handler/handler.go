package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user/filmes/internal/config"
	"github.com/user/filmes/internal/repository"
	"github.com/user/filmes/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos  *repository.Repositories
	Config *config.Config
	Movies *service.MovieService
	Log    zerolog.Logger
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) (*Handler, error) {
	// 类型/语言存在性检查带 LRU 缓存
	refs, err := service.NewReferenceChecker(repos.Reference, cfg.RefCacheSize, cfg.RefCacheTTL)
	if err != nil {
		return nil, err
	}

	return &Handler{
		Repos:  repos,
		Config: cfg,
		Movies: service.NewMovieService(repos.Movie, refs, cfg.MoviesCacheTTL, log),
		Log:    log,
	}, nil
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.Repos.Ping(ctx); err != nil {
		h.Log.Warn().Err(err).Msg("健康检查失败")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	count, err := h.Movies.Count(ctx)
	if err != nil {
		h.Log.Warn().Err(err).Msg("统计电影数量失败")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "movies": count})
}
