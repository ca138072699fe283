package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/neurixa/neurixa/config"
	"github.com/neurixa/neurixa/internal/container"
	"github.com/neurixa/neurixa/internal/domain/files"
	pginfra "github.com/neurixa/neurixa/internal/infrastructure/postgres"
	"github.com/neurixa/neurixa/internal/infrastructure/storage"
	"github.com/neurixa/neurixa/internal/interface/middleware"
	"github.com/neurixa/neurixa/internal/router"
	"github.com/neurixa/neurixa/pkg/helpers"
	"github.com/neurixa/neurixa/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Token codec fails fast on a missing or short secret.
	codec, err := helpers.NewTokenCodec(cfg.JWTSecret, cfg.JWTValidity)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis backs the token denylist
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	denylist := helpers.NewRedisDenylist(rdb, cfg.DenylistKeyPrefix, cfg.DenylistFailOpen, logger)

	// Blob storage backend
	store, cleanup, err := buildStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}
	defer cleanup()

	// RabbitMQ is optional; without it blog events are simply not emitted.
	if pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventQueue); err != nil {
		logger.WithError(err).Warn("rabbitmq unavailable, domain events disabled")
	} else {
		container.SetRabbitPub(pub)
		defer pub.Close()
	}

	// Elasticsearch is optional; without it article search returns empty.
	if es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass); err != nil {
		logger.WithError(err).Warn("elasticsearch unavailable, article search disabled")
	} else {
		container.SetES(es)
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetTokenCodec(codec)
	container.SetDenylist(denylist)
	container.SetStorage(store)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	// Every request resolves its principal once; guards sit on the routes.
	r.Use(middleware.Authenticate(codec, denylist))

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// buildStorage picks the blob backend from config: local disk by default, GCS
// when STORAGE_BACKEND=gcs.
func buildStorage(ctx context.Context, cfg *config.Config) (files.StorageProvider, func(), error) {
	switch strings.ToLower(cfg.StorageBackend) {
	case "gcs":
		if cfg.GCSBucket == "" {
			return nil, nil, errors.New("GCS_BUCKET is required when STORAGE_BACKEND=gcs")
		}
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, nil, err
		}
		provider := storage.NewGCSProvider(client, cfg.GCSBucket)
		return provider, func() { _ = client.Close() }, nil
	default:
		provider, err := storage.NewLocalProvider(cfg.StorageLocalRoot)
		if err != nil {
			return nil, nil, err
		}
		return provider, func() {}, nil
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
