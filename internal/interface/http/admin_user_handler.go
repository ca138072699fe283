package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/neurixa/neurixa/internal/application"
	"github.com/neurixa/neurixa/internal/domain/user"
	"github.com/neurixa/neurixa/internal/interface/middleware"
	"github.com/neurixa/neurixa/pkg/apperr"
	"github.com/neurixa/neurixa/pkg/response"
	"github.com/neurixa/neurixa/pkg/validation"
)

// AdminUserHandler serves the account administration endpoints.
type AdminUserHandler struct {
	Auth   *application.AuthService
	Logger *logrus.Logger
}

func NewAdminUserHandler(auth *application.AuthService, logger *logrus.Logger) *AdminUserHandler {
	return &AdminUserHandler{Auth: auth, Logger: logger}
}

// List GET /api/admin/users
func (h *AdminUserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	filter := user.ListFilter{
		Search:        c.Query("search"),
		Page:          page,
		Size:          size,
		SortBy:        c.DefaultQuery("sort_by", "createdAt"),
		SortDirection: c.DefaultQuery("sort_dir", "desc"),
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role, err := user.ParseRole(roleStr)
		if err != nil {
			response.WriteError(c, err)
			return
		}
		filter.Role = role
	}
	if lockedStr := c.Query("locked"); lockedStr != "" {
		locked, err := strconv.ParseBool(lockedStr)
		if err != nil {
			response.WriteError(c, apperr.InvalidInput("locked must be true or false"))
			return
		}
		filter.Locked = &locked
	}

	result, err := h.Auth.ListUsers(c.Request.Context(), filter)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	dtos := make([]UserDTO, 0, len(result.Content))
	for _, a := range result.Content {
		dtos = append(dtos, toUserDTO(a))
	}
	meta := gin.H{
		"page":           result.PageNumber,
		"size":           result.PageSize,
		"total_elements": result.TotalElements,
		"total_pages":    result.TotalPages,
		"has_next":       result.HasNext(),
		"has_previous":   result.HasPrevious(),
	}
	resp := response.Success(c, http.StatusOK, dtos, "users", meta)
	c.JSON(resp.Status, resp)
}

// Get GET /api/admin/users/:id
func (h *AdminUserHandler) Get(c *gin.Context) {
	account, err := h.Auth.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, toUserDTO(account), "user", nil)
	c.JSON(resp.Status, resp)
}

// Update PUT /api/admin/users/:id applies email and/or role changes.
func (h *AdminUserHandler) Update(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"omitempty,email"`
		Role  string `json:"role" binding:"omitempty,oneof=USER ADMIN SUPER_ADMIN"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	updated, err := h.Auth.UpdateUser(c.Request.Context(), c.Param("id"), req.Email, user.Role(req.Role))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, toUserDTO(updated), "user updated", nil)
	c.JSON(resp.Status, resp)
}

// Delete DELETE /api/admin/users/:id
func (h *AdminUserHandler) Delete(c *gin.Context) {
	req, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if err := h.Auth.DeleteUser(c.Request.Context(), c.Param("id"), req); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeRole PUT /api/admin/users/:id/role
func (h *AdminUserHandler) ChangeRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required,oneof=USER ADMIN SUPER_ADMIN"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	requestorAcc, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	tokenRole := user.Role(c.GetString(middleware.CtxUserRole))
	updated, err := h.Auth.ChangeRole(c.Request.Context(), c.Param("id"), user.Role(req.Role), requestorAcc, tokenRole)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, toUserDTO(updated), "role updated", nil)
	c.JSON(resp.Status, resp)
}

// Lock POST /api/admin/users/:id/lock
func (h *AdminUserHandler) Lock(c *gin.Context) {
	updated, err := h.Auth.LockUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, toUserDTO(updated), "user locked", nil)
	c.JSON(resp.Status, resp)
}

// Unlock POST /api/admin/users/:id/unlock
func (h *AdminUserHandler) Unlock(c *gin.Context) {
	updated, err := h.Auth.UnlockUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, toUserDTO(updated), "user unlocked", nil)
	c.JSON(resp.Status, resp)
}

// ResetFailedLogin POST /api/admin/users/:id/reset-failed-login
func (h *AdminUserHandler) ResetFailedLogin(c *gin.Context) {
	updated, err := h.Auth.ResetFailedLogin(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, toUserDTO(updated), "failed attempts reset", nil)
	c.JSON(resp.Status, resp)
}
