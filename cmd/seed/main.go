package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/neurixa/neurixa/config"
	"github.com/neurixa/neurixa/internal/domain/user"
	pginfra "github.com/neurixa/neurixa/internal/infrastructure/postgres"
	"github.com/neurixa/neurixa/pkg/apperr"
	"github.com/neurixa/neurixa/pkg/helpers"
)

// Seeds the initial SUPER_ADMIN account. Idempotent: an existing account with
// the configured username is promoted if needed and otherwise left alone.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool)

	existing, err := repo.FindByUsername(ctx, cfg.SeedAdminUsername)
	switch {
	case err == nil:
		if existing.Role == user.RoleSuperAdmin {
			logger.WithField("username", existing.Username).Info("super admin already present")
			return
		}
		promoted, err := existing.Promote(user.RoleSuperAdmin)
		if err != nil {
			log.Fatalf("failed to promote existing account: %v", err)
		}
		if _, err := repo.Save(ctx, promoted); err != nil {
			log.Fatalf("failed to save promoted account: %v", err)
		}
		logger.WithField("username", promoted.Username).Info("existing account promoted to super admin")
	case apperr.IsKind(err, apperr.KindNotFound):
		hash, err := helpers.HashPassword(cfg.SeedAdminPassword)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		account, err := user.New(cfg.SeedAdminUsername, cfg.SeedAdminEmail, hash, user.RoleSuperAdmin)
		if err != nil {
			log.Fatalf("invalid seed account: %v", err)
		}
		account = account.VerifyEmail()
		if _, err := repo.Save(ctx, account); err != nil {
			log.Fatalf("failed to save super admin: %v", err)
		}
		logger.WithField("username", account.Username).Info("super admin created")
	default:
		log.Fatalf("failed to look up seed account: %v", err)
	}
}
