package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/neurixa/neurixa/internal/application"
	"github.com/neurixa/neurixa/pkg/apperr"
	"github.com/neurixa/neurixa/pkg/response"
	"github.com/neurixa/neurixa/pkg/validation"
)

// FileHandler serves the personal file store endpoints. All routes require
// an authenticated principal; owner scoping happens in the service.
type FileHandler struct {
	Files  *application.FileService
	Auth   *application.AuthService
	Logger *logrus.Logger
}

func NewFileHandler(files *application.FileService, auth *application.AuthService, logger *logrus.Logger) *FileHandler {
	return &FileHandler{Files: files, Auth: auth, Logger: logger}
}

// Upload POST /api/files (multipart: file, optional folder_id)
func (h *FileHandler) Upload(c *gin.Context) {
	account, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.WriteError(c, apperr.InvalidInput("file is required"))
		return
	}
	src, err := fh.Open()
	if err != nil {
		response.WriteError(c, err)
		return
	}
	defer func() { _ = src.Close() }()

	mimeType := fh.Header.Get("Content-Type")
	folderID := c.PostForm("folder_id")

	file, err := h.Files.Upload(c.Request.Context(), account.ID, fh.Filename, mimeType, fh.Size, folderID, src)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, file, "file uploaded", nil)
	c.JSON(resp.Status, resp)
}

// UploadVersion POST /api/files/:id/versions (multipart: file)
func (h *FileHandler) UploadVersion(c *gin.Context) {
	account, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.WriteError(c, apperr.InvalidInput("file is required"))
		return
	}
	src, err := fh.Open()
	if err != nil {
		response.WriteError(c, err)
		return
	}
	defer func() { _ = src.Close() }()

	file, err := h.Files.UploadVersion(c.Request.Context(), account.ID, c.Param("id"), fh.Header.Get("Content-Type"), fh.Size, src)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, file, "file version uploaded", nil)
	c.JSON(resp.Status, resp)
}

// Download GET /api/files/:id/download streams the current version.
func (h *FileHandler) Download(c *gin.Context) {
	account, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	file, rc, err := h.Files.Download(c.Request.Context(), account.ID, c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	defer func() { _ = rc.Close() }()

	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Header("Content-Type", file.MimeType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

// Rename PUT /api/files/:id/name
func (h *FileHandler) Rename(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
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
	file, err := h.Files.RenameFile(c.Request.Context(), account.ID, c.Param("id"), req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, file, "file renamed", nil)
	c.JSON(resp.Status, resp)
}

// Move PUT /api/files/:id/folder
func (h *FileHandler) Move(c *gin.Context) {
	var req struct {
		FolderID string `json:"folder_id"`
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
	file, err := h.Files.MoveFile(c.Request.Context(), account.ID, c.Param("id"), req.FolderID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, file, "file moved", nil)
	c.JSON(resp.Status, resp)
}

// Delete DELETE /api/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	account, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if err := h.Files.DeleteFile(c.Request.Context(), account.ID, c.Param("id")); err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "file deleted", nil)
	c.JSON(resp.Status, resp)
}

// Versions GET /api/files/:id/versions
func (h *FileHandler) Versions(c *gin.Context) {
	account, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	versions, err := h.Files.ListVersions(c.Request.Context(), account.ID, c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, versions, "versions", nil)
	c.JSON(resp.Status, resp)
}

// CreateFolder POST /api/folders
func (h *FileHandler) CreateFolder(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		ParentID string `json:"parent_id"`
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
	folder, err := h.Files.CreateFolder(c.Request.Context(), account.ID, req.Name, req.ParentID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, folder, "folder created", nil)
	c.JSON(resp.Status, resp)
}

// ListFolder GET /api/folders/content lists the root; /api/folders/:id/content
// lists one folder. Both accept page and size.
func (h *FileHandler) ListFolder(c *gin.Context) {
	account, err := requestor(c, h.Auth)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	content, err := h.Files.ListFolderContent(c.Request.Context(), account.ID, c.Param("id"), page, size)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	meta := gin.H{
		"page":           content.PageNumber,
		"size":           content.PageSize,
		"total_elements": content.TotalElements,
		"total_pages":    content.TotalPages,
	}
	resp := response.Success(c, http.StatusOK, gin.H{"folders": content.Folders, "files": content.Files}, "folder content", meta)
	c.JSON(resp.Status, resp)
}
