package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码
const (
	CodeInvalidPayload  = "INVALID_PAYLOAD"
	CodeInvalidID       = "INVALID_ID"
	CodeInvalidDate     = "INVALID_RELEASE_DATE"
	CodeUnknownGenre    = "UNKNOWN_GENRE"
	CodeUnknownLanguage = "UNKNOWN_LANGUAGE"
	CodeNotFound        = "MOVIE_NOT_FOUND"
	CodeDuplicateTitle  = "DUPLICATE_TITLE"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error 返回错误响应
func Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Message: message,
		Code:    code,
	})
}

// Empty 返回无响应体的状态码
func Empty(c *gin.Context, status int) {
	c.Status(status)
	c.Writer.WriteHeaderNow()
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, code, message string) {
	if message == "" {
		message = "dados inválidos"
	}
	Error(c, http.StatusBadRequest, code, message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "recurso não encontrado"
	}
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

// Conflict 返回409错误
func Conflict(c *gin.Context, code, message string) {
	Error(c, http.StatusConflict, code, message)
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "erro interno do servidor"
	}
	Error(c, http.StatusInternalServerError, CodeInternal, message)
}
