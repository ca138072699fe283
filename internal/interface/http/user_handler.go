package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/neurixa/neurixa/internal/application"
	"github.com/neurixa/neurixa/pkg/response"
	"github.com/neurixa/neurixa/pkg/validation"
)

// UserHandler serves the self-service profile endpoints.
type UserHandler struct {
	Auth   *application.AuthService
	Logger *logrus.Logger
}

func NewUserHandler(auth *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Auth: auth, Logger: logger}
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	account, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, toUserDTO(account), "profile", nil)
	c.JSON(resp.Status, resp)
}

// ChangeEmail PUT /api/users/me/email
func (h *UserHandler) ChangeEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	account, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	updated, err := h.Auth.UpdateUser(c.Request.Context(), account.ID, req.Email, "")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, toUserDTO(updated), "email updated", nil)
	c.JSON(resp.Status, resp)
}

// ChangePassword PUT /api/users/me/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	account, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	updated, err := h.Auth.ChangePassword(c.Request.Context(), account.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, toUserDTO(updated), "password updated", nil)
	c.JSON(resp.Status, resp)
}

// DeleteMe DELETE /api/users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	account, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if err := h.Auth.DeleteUser(c.Request.Context(), account.ID, account); err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "account deleted", nil)
	c.JSON(resp.Status, resp)
}
