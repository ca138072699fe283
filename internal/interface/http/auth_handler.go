package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/neurixa/neurixa/internal/application"
	"github.com/neurixa/neurixa/internal/domain/user"
	"github.com/neurixa/neurixa/internal/interface/middleware"
	"github.com/neurixa/neurixa/pkg/apperr"
	"github.com/neurixa/neurixa/pkg/response"
	"github.com/neurixa/neurixa/pkg/validation"
)

// UserDTO is the wire shape of an account. The password hash never leaves
// the service.
type UserDTO struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	Role                string    `json:"role"`
	Locked              bool      `json:"locked"`
	EmailVerified       bool      `json:"email_verified"`
	FailedLoginAttempts int       `json:"failed_login_attempts"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toUserDTO(a user.Account) UserDTO {
	return UserDTO{
		ID:                  a.ID,
		Username:            a.Username,
		Email:               a.Email,
		Role:                string(a.Role),
		Locked:              a.Locked,
		EmailVerified:       a.EmailVerified,
		FailedLoginAttempts: a.FailedLoginAttempts,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

type AuthHandler struct {
	Auth   *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

// requestor resolves the persisted account behind the request principal.
func requestor(c *gin.Context, auth *application.AuthService) (user.Account, error) {
	subject := c.GetString(middleware.CtxUserID)
	if subject == "" {
		return user.Account{}, apperr.Unauthenticated("Authentication required")
	}
	return auth.GetByUsername(c.Request.Context(), subject)
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	account, token, err := h.Auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, gin.H{"user": toUserDTO(account), "token": token}, "registered", nil)
	c.JSON(resp.Status, resp)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	account, token, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, gin.H{"user": toUserDTO(account), "token": token}, "logged in", nil)
	c.JSON(resp.Status, resp)
}

// Logout POST /api/auth/logout revokes the presented token. The header is
// parsed here rather than by the auth guard: a missing or malformed header is
// a bad request, not an unauthenticated one.
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		response.WriteError(c, apperr.InvalidInput("Missing or invalid Authorization header"))
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		response.WriteError(c, apperr.InvalidInput("Missing or invalid Authorization header"))
		return
	}
	if err := h.Auth.Logout(c.Request.Context(), token); err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
	c.JSON(resp.Status, resp)
}
