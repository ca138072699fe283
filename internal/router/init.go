package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neurixa/neurixa/internal/application"
	"github.com/neurixa/neurixa/internal/container"
	"github.com/neurixa/neurixa/internal/infrastructure/postgres"
	"github.com/neurixa/neurixa/internal/infrastructure/search"
	handlers "github.com/neurixa/neurixa/internal/interface/http"
	"github.com/neurixa/neurixa/internal/router/modules"
	"github.com/neurixa/neurixa/pkg/helpers"
)

func buildAuthService() *application.AuthService {
	return application.NewAuthService(
		postgres.NewUserRepository(container.GetPGPool()),
		helpers.Bcrypt{},
		container.GetTokenCodec(),
		container.GetDenylist(),
		container.GetLogger(),
	)
}

func buildFileService() *application.FileService {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	return application.NewFileService(
		postgres.NewFileRepository(pool),
		postgres.NewFolderRepository(pool),
		postgres.NewFileVersionRepository(pool),
		container.GetStorage(),
		cfg.MimeTypes(),
		cfg.MaxUploadSize,
		container.GetLogger(),
	)
}

func buildBlogService() *application.BlogService {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	var searcher application.ArticleSearcher
	if es := container.GetES(); es != nil {
		searcher = search.NewArticleIndex(es, cfg.ESArticlesIndex, container.GetLogger())
	}
	return application.NewBlogService(
		postgres.NewArticleRepository(pool),
		postgres.NewCategoryRepository(pool),
		postgres.NewTagRepository(pool),
		postgres.NewCommentRepository(pool),
		container.GetRabbitPub(),
		searcher,
		container.GetLogger(),
	)
}

// InitModules builds all services and registers the feature modules with the
// router registry. Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	logger := container.GetLogger()

	authService := buildAuthService()
	fileService := buildFileService()
	blogService := buildBlogService()

	authHandler := handlers.NewAuthHandler(authService, logger)
	userHandler := handlers.NewUserHandler(authService, logger)
	adminHandler := handlers.NewAdminUserHandler(authService, logger)
	fileHandler := handlers.NewFileHandler(fileService, authService, logger)
	blogHandler := handlers.NewBlogHandler(blogService, authService, logger)

	r.Add(modules.NewAuthModule(authHandler, userHandler))
	r.Add(modules.NewAdminModule(adminHandler))
	r.Add(modules.NewFileModule(fileHandler))
	r.Add(modules.NewBlogModule(blogHandler))

	registerOps(r.Engine)
}

// registerOps exposes liveness and metrics on the engine root, outside /api.
func registerOps(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
