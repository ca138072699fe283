package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/neurixa/neurixa/internal/interface/http"
	"github.com/neurixa/neurixa/internal/interface/middleware"
)

// FileModule wires the personal file store under /api/files and /api/folders.
// Everything requires authentication; ownership is enforced in the service.
type FileModule struct {
	Handler *handlers.FileHandler
}

func NewFileModule(h *handlers.FileHandler) *FileModule {
	return &FileModule{Handler: h}
}

func (m *FileModule) Register(rg *gin.RouterGroup) {
	files := rg.Group("/files")
	files.Use(middleware.RequireAuth())
	{
		files.POST("", m.Handler.Upload)
		files.GET("/:id/download", m.Handler.Download)
		files.GET("/:id/versions", m.Handler.Versions)
		files.POST("/:id/versions", m.Handler.UploadVersion)
		files.PUT("/:id/name", m.Handler.Rename)
		files.PUT("/:id/folder", m.Handler.Move)
		files.DELETE("/:id", m.Handler.Delete)
	}

	folders := rg.Group("/folders")
	folders.Use(middleware.RequireAuth())
	{
		folders.POST("", m.Handler.CreateFolder)
		folders.GET("/content", m.Handler.ListFolder)
		folders.GET("/:id/content", m.Handler.ListFolder)
	}
}
