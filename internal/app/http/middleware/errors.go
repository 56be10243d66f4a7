package middleware

import (
	"errors"
	"net/http"

	"hogwarts-artifacts/internal/api/result"
	"hogwarts-artifacts/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error pushed with c.Error as the envelope.
// Handlers never write failures themselves.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		status, message, data := translate(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
		result.Fail(c, status, message, data)
	}
}

func translate(err error) (int, string, any) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, apperr.MsgInternal, err.Error()
	}

	switch e.Kind {
	case apperr.KindNotFound:
		return http.StatusNotFound, e.Message, e.Data
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest, e.Message, e.Data
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, e.Message, e.Data
	case apperr.KindForbidden:
		return http.StatusForbidden, e.Message, e.Data
	case apperr.KindUpstream:
		status := e.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, e.Message, e.Data
	default:
		return http.StatusInternalServerError, apperr.MsgInternal, e.Data
	}
}

// NoRoute answers unknown endpoints.
func NoRoute(c *gin.Context) {
	result.Fail(c, http.StatusNotFound, apperr.MsgNoEndpoint,
		"No endpoint "+c.Request.Method+" "+c.Request.URL.Path+".")
}
