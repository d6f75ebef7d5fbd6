package user

import (
	"github.com/gin-gonic/gin"
	"github.com/joefazee/foresight/internal/deps"
)

const (
	RepoKey    = "user_repository"
	ServiceKey = "user_service"
)

// MountPublic mounts public user routes (registration, login, password reset).
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	userGroup := r.Group("/users")
	userGroup.POST("/register", handler.Register)
	userGroup.POST("/login", handler.Login)
	userGroup.POST("/password-reset/request", handler.RequestPasswordReset)
	userGroup.POST("/password-reset/reset", handler.ResetPassword)
}

// MountAuthenticated mounts routes that require a verified bearer token.
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	userGroup := r.Group("/users")
	userGroup.Use(AuthMiddleware(container.TokenMaker, container.GetRepository(RepoKey).(Repository)))
	userGroup.GET("/profile", handler.GetProfile)
}

// InitRepositories initializes and registers repositories and services for this module.
func InitRepositories(container *deps.Container) {
	userRepo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, userRepo)

	userService := NewService(userRepo, container.TokenMaker)
	container.RegisterService(ServiceKey, userService)
}

// createHandler creates a user handler with all dependencies.
func createHandler(container *deps.Container) *Handler {
	userService := container.GetService(ServiceKey).(Service)
	return NewHandler(userService, container.Sanitizer)
}
