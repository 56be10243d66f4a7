package routes

import (
	"fmt"
	"net/http"
	"time"

	"hogwarts-artifacts/internal/api/result"
	"hogwarts-artifacts/internal/app/http/middleware"
	"hogwarts-artifacts/internal/apperr"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EngineConfig struct {
	BaseURL    string
	CorsOrigin string
}

// NewEngine builds the gin engine with the global middleware chain and all
// routes. ErrorHandler sits last so it wraps every route handler.
func NewEngine(cfg EngineConfig, log *zap.Logger, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		result.Fail(c, http.StatusInternalServerError, apperr.MsgInternal, fmt.Sprint(recovered))
	}))
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CorsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.ErrorHandler(log))

	result.UseJSONFieldNames()
	RegisterRoutes(r, cfg.BaseURL, h)
	return r
}
