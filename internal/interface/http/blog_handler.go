package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/neurixa/neurixa/internal/application"
	"github.com/neurixa/neurixa/internal/domain/blog"
	"github.com/neurixa/neurixa/pkg/response"
	"github.com/neurixa/neurixa/pkg/validation"
)

// BlogHandler serves both the public blog surface and the authoring/
// moderation endpoints. The router decides which routes carry guards.
type BlogHandler struct {
	Blog   *application.BlogService
	Auth   *application.AuthService
	Logger *logrus.Logger
}

func NewBlogHandler(blogSvc *application.BlogService, auth *application.AuthService, logger *logrus.Logger) *BlogHandler {
	return &BlogHandler{Blog: blogSvc, Auth: auth, Logger: logger}
}

// --- Public surface ---

// ListPublished GET /api/blog/articles
func (h *BlogHandler) ListPublished(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	filter := blog.ArticleFilter{
		CategoryID: c.Query("category_id"),
		TagID:      c.Query("tag_id"),
		Page:       page,
		Size:       size,
	}
	result, err := h.Blog.ListPublished(c.Request.Context(), filter)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	meta := gin.H{
		"page":           result.PageNumber,
		"size":           result.PageSize,
		"total_elements": result.TotalElements,
		"total_pages":    result.TotalPages,
	}
	resp := response.Success(c, http.StatusOK, result.Content, "articles", meta)
	c.JSON(resp.Status, resp)
}

// GetBySlug GET /api/blog/articles/:slug
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	article, err := h.Blog.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, article, "article", nil)
	c.JSON(resp.Status, resp)
}

// Search GET /api/blog/search?q=
func (h *BlogHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Blog.SearchArticles(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, hits, "search results", nil)
	c.JSON(resp.Status, resp)
}

// ListCategories GET /api/blog/categories
func (h *BlogHandler) ListCategories(c *gin.Context) {
	categories, err := h.Blog.ListCategories(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, categories, "categories", nil)
	c.JSON(resp.Status, resp)
}

// ListTags GET /api/blog/tags
func (h *BlogHandler) ListTags(c *gin.Context) {
	tags, err := h.Blog.ListTags(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, tags, "tags", nil)
	c.JSON(resp.Status, resp)
}

// ListComments GET /api/blog/article-comments/:id lists approved comments.
func (h *BlogHandler) ListComments(c *gin.Context) {
	comments, err := h.Blog.ListApprovedComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, comments, "comments", nil)
	c.JSON(resp.Status, resp)
}

// AddComment POST /api/blog/article-comments/:id
func (h *BlogHandler) AddComment(c *gin.Context) {
	var req struct {
		AuthorName  string `json:"author_name" binding:"required"`
		AuthorEmail string `json:"author_email" binding:"omitempty,email"`
		Body        string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	comment, err := h.Blog.AddComment(c.Request.Context(), c.Param("id"), req.AuthorName, req.AuthorEmail, req.Body)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, comment, "comment submitted", nil)
	c.JSON(resp.Status, resp)
}

// --- Authoring ---

// CreateDraft POST /api/blog/admin/articles
func (h *BlogHandler) CreateDraft(c *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"required"`
		Content     string   `json:"content"`
		Excerpt     string   `json:"excerpt"`
		CategoryIDs []string `json:"category_ids"`
		TagIDs      []string `json:"tag_ids"`
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
	article, err := h.Blog.CreateDraft(c.Request.Context(), account.ID, req.Title, req.Content, req.Excerpt, req.CategoryIDs, req.TagIDs)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, article, "draft created", nil)
	c.JSON(resp.Status, resp)
}

// UpdateArticle PUT /api/blog/admin/articles/:id
func (h *BlogHandler) UpdateArticle(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content"`
		Excerpt string `json:"excerpt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	article, err := h.Blog.UpdateArticle(c.Request.Context(), c.Param("id"), req.Title, req.Content, req.Excerpt)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, article, "article updated", nil)
	c.JSON(resp.Status, resp)
}

// CategorizeArticle PUT /api/blog/admin/articles/:id/taxonomy
func (h *BlogHandler) CategorizeArticle(c *gin.Context) {
	var req struct {
		CategoryIDs []string `json:"category_ids"`
		TagIDs      []string `json:"tag_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	article, err := h.Blog.CategorizeArticle(c.Request.Context(), c.Param("id"), req.CategoryIDs, req.TagIDs)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, article, "article taxonomy updated", nil)
	c.JSON(resp.Status, resp)
}

// SetArticleMeta PUT /api/blog/admin/articles/:id/meta
func (h *BlogHandler) SetArticleMeta(c *gin.Context) {
	var req struct {
		MetaTitle       string `json:"meta_title"`
		MetaDescription string `json:"meta_description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	article, err := h.Blog.SetArticleMeta(c.Request.Context(), c.Param("id"), req.MetaTitle, req.MetaDescription)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, article, "article meta updated", nil)
	c.JSON(resp.Status, resp)
}

// Publish POST /api/blog/admin/articles/:id/publish
func (h *BlogHandler) Publish(c *gin.Context) {
	article, err := h.Blog.PublishArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, article, "article published", nil)
	c.JSON(resp.Status, resp)
}

// Unpublish POST /api/blog/admin/articles/:id/unpublish
func (h *BlogHandler) Unpublish(c *gin.Context) {
	article, err := h.Blog.UnpublishArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, article, "article unpublished", nil)
	c.JSON(resp.Status, resp)
}

// DeleteArticle DELETE /api/blog/admin/articles/:id
func (h *BlogHandler) DeleteArticle(c *gin.Context) {
	if err := h.Blog.DeleteArticle(c.Request.Context(), c.Param("id")); err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "article deleted", nil)
	c.JSON(resp.Status, resp)
}

// RestoreArticle POST /api/blog/admin/articles/:id/restore
func (h *BlogHandler) RestoreArticle(c *gin.Context) {
	article, err := h.Blog.RestoreArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, article, "article restored", nil)
	c.JSON(resp.Status, resp)
}

// --- Taxonomy administration ---

// CreateCategory POST /api/blog/admin/categories
func (h *BlogHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	category, err := h.Blog.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, category, "category created", nil)
	c.JSON(resp.Status, resp)
}

// UpdateCategory PUT /api/blog/admin/categories/:id
func (h *BlogHandler) UpdateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	category, err := h.Blog.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, category, "category updated", nil)
	c.JSON(resp.Status, resp)
}

// DeleteCategory DELETE /api/blog/admin/categories/:id
func (h *BlogHandler) DeleteCategory(c *gin.Context) {
	if err := h.Blog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "category deleted", nil)
	c.JSON(resp.Status, resp)
}

// CreateTag POST /api/blog/admin/tags
func (h *BlogHandler) CreateTag(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	tag, err := h.Blog.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, tag, "tag created", nil)
	c.JSON(resp.Status, resp)
}

// DeleteTag DELETE /api/blog/admin/tags/:id
func (h *BlogHandler) DeleteTag(c *gin.Context) {
	if err := h.Blog.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "tag deleted", nil)
	c.JSON(resp.Status, resp)
}

// --- Moderation ---

// PendingComments GET /api/blog/admin/comments/pending
func (h *BlogHandler) PendingComments(c *gin.Context) {
	comments, err := h.Blog.ListPendingComments(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, comments, "pending comments", nil)
	c.JSON(resp.Status, resp)
}

// ApproveComment POST /api/blog/admin/comments/:id/approve
func (h *BlogHandler) ApproveComment(c *gin.Context) {
	comment, err := h.Blog.ApproveComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, comment, "comment approved", nil)
	c.JSON(resp.Status, resp)
}

// RejectComment POST /api/blog/admin/comments/:id/reject
func (h *BlogHandler) RejectComment(c *gin.Context) {
	comment, err := h.Blog.RejectComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, comment, "comment rejected", nil)
	c.JSON(resp.Status, resp)
}
