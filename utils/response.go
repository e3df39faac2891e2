package utils

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

const mensajeErrorInterno = "Error interno del servidor"

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewMeta(total int64, page, limit int) *Meta {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return &Meta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// Respuesta is the envelope every JSON endpoint answers with.
type Respuesta struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Results    interface{} `json:"results"`
	Meta       *Meta       `json:"meta,omitempty"`
}

func Respond(c *gin.Context, status int, msg string, results interface{}, meta *Meta) {
	c.JSON(status, Respuesta{StatusCode: status, Message: msg, Results: results, Meta: meta})
}

func RespondWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Respuesta{StatusCode: status, Message: msg, Results: nil})
}

// RespondWithAppError writes err in the common envelope. Errors that are not an
// AppError are reported as a generic 500 so internals never leak.
func RespondWithAppError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondWithError(c, appErr.Status, appErr.Message)
		return
	}
	_ = c.Error(err)
	RespondWithError(c, http.StatusInternalServerError, mensajeErrorInterno)
}
