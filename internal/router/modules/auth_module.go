package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/neurixa/neurixa/internal/interface/http"
	"github.com/neurixa/neurixa/internal/interface/middleware"
)

// AuthModule wires registration, login, logout, and the self-service profile
// routes.
// Public: POST /api/auth/register, /api/auth/login, /api/auth/logout (logout
// validates the bearer token itself so a bad header reads as a bad request)
// Protected: /api/users/me and its sub-routes
type AuthModule struct {
	Auth *handlers.AuthHandler
	User *handlers.UserHandler
}

func NewAuthModule(auth *handlers.AuthHandler, user *handlers.UserHandler) *AuthModule {
	return &AuthModule{Auth: auth, User: user}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Auth.Register)
	rg.POST("/auth/login", m.Auth.Login)
	rg.POST("/auth/logout", m.Auth.Logout)

	protected := rg.Group("/")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/users/me", m.User.Me)
		protected.PUT("/users/me/email", m.User.ChangeEmail)
		protected.PUT("/users/me/password", m.User.ChangePassword)
		protected.DELETE("/users/me", m.User.DeleteMe)
	}
}
