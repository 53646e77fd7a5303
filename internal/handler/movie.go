package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/filmes/internal/model"
	"github.com/user/filmes/internal/service"
	"github.com/user/filmes/internal/utils"
)

// 对外消息
const (
	msgDuplicateTitle  = "já existe um filme cadastrado com esse titulo"
	msgCreateFailed    = "falha cadastrar o filme"
	msgNotFound        = "Filme não encontrado"
	msgUpdateFailed    = "falha ao atualizar registro do filme"
	msgListFailed      = "falha ao listar os filmes"
	msgInvalidPayload  = "dados inválidos"
	msgInvalidDate     = "data de lançamento inválida"
	msgInvalidID       = "id inválido"
	msgUnknownGenre    = "gênero não encontrado"
	msgUnknownLanguage = "idioma não encontrado"
)

// ListMovies 电影列表，按标题升序
func (h *Handler) ListMovies(c *gin.Context) {
	movies, err := h.Movies.List(c.Request.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("查询电影列表失败")
		utils.InternalServerError(c, msgListFailed)
		return
	}

	c.JSON(http.StatusOK, movies)
}

// CreateMovie 新建电影，成功时返回 201 且无响应体
func (h *Handler) CreateMovie(c *gin.Context) {
	var req model.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.CodeInvalidPayload, msgInvalidPayload)
		return
	}

	if _, err := h.Movies.Create(c.Request.Context(), &req); err != nil {
		if h.writeDomainError(c, err) {
			return
		}
		h.Log.Error().Err(err).Str("title", req.Title).Msg("创建电影失败")
		utils.InternalServerError(c, msgCreateFailed)
		return
	}

	utils.Empty(c, http.StatusCreated)
}

// UpdateMovie 部分更新电影，成功时返回 200 且无响应体
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, utils.CodeInvalidID, msgInvalidID)
		return
	}

	// 空请求体视为没有要更新的字段
	var req model.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, utils.CodeInvalidPayload, msgInvalidPayload)
		return
	}

	if err := h.Movies.Update(c.Request.Context(), id, &req); err != nil {
		if h.writeDomainError(c, err) {
			return
		}
		h.Log.Error().Err(err).Int("movie_id", id).Msg("更新电影失败")
		utils.InternalServerError(c, msgUpdateFailed)
		return
	}

	utils.Empty(c, http.StatusOK)
}

// writeDomainError 已知业务错误写入响应并返回 true
func (h *Handler) writeDomainError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrMovieNotFound):
		utils.NotFound(c, msgNotFound)
	case errors.Is(err, service.ErrDuplicateTitle):
		utils.Conflict(c, utils.CodeDuplicateTitle, msgDuplicateTitle)
	case errors.Is(err, service.ErrInvalidReleaseDate):
		utils.BadRequest(c, utils.CodeInvalidDate, msgInvalidDate)
	case errors.Is(err, service.ErrUnknownGenre):
		utils.BadRequest(c, utils.CodeUnknownGenre, msgUnknownGenre)
	case errors.Is(err, service.ErrUnknownLanguage):
		utils.BadRequest(c, utils.CodeUnknownLanguage, msgUnknownLanguage)
	default:
		return false
	}
	return true
}
