package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/neurixa/neurixa/internal/domain/user"
	handlers "github.com/neurixa/neurixa/internal/interface/http"
	"github.com/neurixa/neurixa/internal/interface/middleware"
)

// BlogModule wires the public blog surface under /api/blog and the authoring
// and moderation routes under /api/blog/admin.
type BlogModule struct {
	Handler *handlers.BlogHandler
}

func NewBlogModule(h *handlers.BlogHandler) *BlogModule {
	return &BlogModule{Handler: h}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	public := rg.Group("/blog")
	{
		public.GET("/articles", m.Handler.ListPublished)
		public.GET("/articles/:slug", m.Handler.GetBySlug)
		public.GET("/search", m.Handler.Search)
		public.GET("/categories", m.Handler.ListCategories)
		public.GET("/tags", m.Handler.ListTags)
	}

	comments := rg.Group("/blog/article-comments/:id")
	{
		comments.GET("", m.Handler.ListComments)
		comments.POST("", m.Handler.AddComment)
	}

	admin := rg.Group("/blog/admin")
	admin.Use(middleware.RequireRole(user.RoleAdmin, user.RoleSuperAdmin))
	{
		admin.POST("/articles", m.Handler.CreateDraft)
		admin.PUT("/articles/:id", m.Handler.UpdateArticle)
		admin.PUT("/articles/:id/taxonomy", m.Handler.CategorizeArticle)
		admin.PUT("/articles/:id/meta", m.Handler.SetArticleMeta)
		admin.POST("/articles/:id/publish", m.Handler.Publish)
		admin.POST("/articles/:id/unpublish", m.Handler.Unpublish)
		admin.POST("/articles/:id/restore", m.Handler.RestoreArticle)
		admin.DELETE("/articles/:id", m.Handler.DeleteArticle)

		admin.POST("/categories", m.Handler.CreateCategory)
		admin.PUT("/categories/:id", m.Handler.UpdateCategory)
		admin.DELETE("/categories/:id", m.Handler.DeleteCategory)

		admin.POST("/tags", m.Handler.CreateTag)
		admin.DELETE("/tags/:id", m.Handler.DeleteTag)

		admin.GET("/comments/pending", m.Handler.PendingComments)
		admin.POST("/comments/:id/approve", m.Handler.ApproveComment)
		admin.POST("/comments/:id/reject", m.Handler.RejectComment)
	}
}
