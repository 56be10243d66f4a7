package routes

import (
	"hogwarts-artifacts/internal/api/actuator"
	artifactsapi "hogwarts-artifacts/internal/api/artifacts"
	authapi "hogwarts-artifacts/internal/api/auth"
	usersapi "hogwarts-artifacts/internal/api/users"
	wizardsapi "hogwarts-artifacts/internal/api/wizards"
	"hogwarts-artifacts/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Artifacts *artifactsapi.Handler
	Wizards   *wizardsapi.Handler
	Users     *usersapi.Handler
	Auth      *authapi.Handler
	Actuator  *actuator.Handler

	Tokens        middleware.TokenVerifier
	Authenticator middleware.Authenticator
}

func RegisterRoutes(r *gin.Engine, baseURL string, h Handlers) {
	r.NoRoute(middleware.NoRoute)

	r.GET("/actuator/health", h.Actuator.Health)
	r.GET("/actuator/info", h.Actuator.Info)
	r.GET("/actuator/prometheus", h.Actuator.Prometheus())

	api := r.Group(baseURL)
	requireAuth := middleware.AuthMiddleware(h.Tokens)
	sanitize := middleware.Sanitize()

	// Public
	api.GET("/artifacts", h.Artifacts.FindAll)
	api.GET("/artifacts/summary", h.Artifacts.Summarize)
	api.GET("/artifacts/:id", h.Artifacts.FindByID)
	api.POST("/users/login", middleware.BasicAuth(h.Authenticator), h.Auth.Login)

	// Authenticated
	auth := api.Group("/")
	auth.Use(requireAuth)
	auth.POST("/artifacts/search", h.Artifacts.Search)
	auth.POST("/artifacts", sanitize, h.Artifacts.Add)
	auth.POST("/artifacts/images", h.Artifacts.UploadImage)
	auth.PUT("/artifacts/:id", sanitize, h.Artifacts.Update)
	auth.DELETE("/artifacts/:id", h.Artifacts.Delete)

	auth.GET("/wizards", h.Wizards.FindAll)
	auth.POST("/wizards", sanitize, h.Wizards.Add)
	auth.GET("/wizards/:id", h.Wizards.FindByID)
	auth.PUT("/wizards/:id", sanitize, h.Wizards.Update)
	auth.DELETE("/wizards/:id", h.Wizards.Delete)
	auth.PUT("/wizards/:id/artifacts/:artifactId", h.Wizards.AssignArtifact)

	// Self or admin
	self := api.Group("/users")
	self.Use(requireAuth, middleware.RequireSelfOrRole("id", "admin"))
	self.GET("/:id", h.Users.FindByID)
	self.PUT("/:id", h.Users.Update)
	self.PATCH("/:id/change-password", h.Auth.ChangePassword)

	// Admin routes
	admin := api.Group("/users")
	admin.Use(requireAuth, middleware.RequireRole("admin"))
	admin.GET("", h.Users.FindAll)
	admin.POST("", h.Users.Add)
	admin.DELETE("/:id", h.Users.Delete)
}
