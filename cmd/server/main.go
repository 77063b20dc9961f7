// @title                       Account Service API
// @version                     1.0
// @description                 User registration, login, profile self-service and admin listing.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/99minutos/account-service/internal/api"
	"github.com/99minutos/account-service/internal/api/handler"
	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
	"github.com/99minutos/account-service/internal/core/service"
	"github.com/99minutos/account-service/internal/infrastructure/db/mongo"
	"github.com/99minutos/account-service/internal/infrastructure/db/sqldb"
	"github.com/99minutos/account-service/internal/infrastructure/queue"
	"github.com/99minutos/account-service/internal/infrastructure/security"
	"github.com/99minutos/account-service/internal/pkg/config"
	"github.com/99minutos/account-service/pkg/logger"
)

type store interface {
	ports.AccountRepository
	handler.Pinger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet.
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "account-service",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	defer closeStore()

	// Hash workers outlive the signal context so in-flight requests can
	// finish during shutdown.
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	pool := queue.NewHashPool(cfg.Auth.HashWorkers, security.NewBcryptHasher(cfg.Auth.BcryptCost), logger.Component("hash_pool"))
	pool.Start(poolCtx)

	tokens, err := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token service")
	}

	accounts := service.NewAccountService(repo, pool, tokens, logger.Component("account_service"))
	provisionAdmin(ctx, accounts, cfg.Admin, log)

	e := api.NewRouter(api.Deps{
		Accounts:    accounts,
		Reader:      repo,
		Tokens:      tokens,
		Health:      map[string]handler.Pinger{cfg.Store.Driver: repo},
		Logger:      logger.Component("http"),
		Development: cfg.IsDevelopment(),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.Store.Driver).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server crashed")
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = e.Close()
	}
	log.Info().Msg("shutdown complete")
}

func openStore(ctx context.Context, cfg *config.Config) (store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Store.MongoURI, Database: cfg.Store.MongoDB})
		if err != nil {
			return nil, nil, err
		}
		repo := mongo.NewAccountRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = mongo.Disconnect(context.Background(), client)
			return nil, nil, err
		}
		return repo, func() { _ = mongo.Disconnect(context.Background(), client) }, nil

	default:
		db, err := sqldb.Open(ctx, sqldb.Config{Driver: cfg.Store.Driver, DSN: cfg.Store.DatabaseURL})
		if err != nil {
			return nil, nil, err
		}
		if err := sqldb.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqldb.NewAccountRepository(db), func() { _ = db.Close() }, nil
	}
}

// provisionAdmin seeds the administrator account when a password is
// configured. An existing account with the same identity is left alone.
func provisionAdmin(ctx context.Context, accounts ports.AccountService, admin config.AdminConfig, log zerolog.Logger) {
	if admin.Password == "" {
		return
	}

	_, err := accounts.Provision(ctx, ports.ProvisionInput{
		Username: admin.Username,
		Email:    admin.Email,
		Password: admin.Password,
		Role:     domain.RoleAdmin,
	})
	switch {
	case err == nil:
		log.Info().Str("username", admin.Username).Msg("admin account provisioned")
	case errors.Is(err, domain.ErrAccountExists):
		log.Info().Str("username", admin.Username).Msg("admin account already provisioned")
	default:
		log.Fatal().Err(err).Msg("failed to provision admin account")
	}
}
