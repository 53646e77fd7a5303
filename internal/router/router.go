package router

import (
	"github.com/gin-gonic/gin"
	"github.com/user/filmes/internal/handler"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	// ==================== 电影 ====================
	movies := r.Group("/movies")
	{
		movies.GET("", h.ListMovies)
		movies.POST("", h.CreateMovie)
		movies.PUT("/:id", h.UpdateMovie)
	}
}
