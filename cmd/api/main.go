package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ier-platform/auth-service/internal/api/http"
	"github.com/ier-platform/auth-service/internal/api/http/handlers"
	"github.com/ier-platform/auth-service/internal/auth"
	"github.com/ier-platform/auth-service/internal/config"
	"github.com/ier-platform/auth-service/internal/observability"
	"github.com/ier-platform/auth-service/internal/persistence"
	"github.com/ier-platform/auth-service/internal/repository"
	"github.com/ier-platform/auth-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	accountRepo := repository.NewAccountRepository(pg.PoolHandle())
	accountCache := auth.NewAccountCache(redis.Client, cfg.Redis.CacheTTL())

	authService := service.NewAuthService(cfg.Auth, accountRepo)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), accountRepo, accountCache)

	if acct, err := authService.EnsureBootstrapAccount(ctx, cfg.Auth); err != nil {
		logger.Fatal("failed to provision bootstrap account", zap.Error(err))
	} else if acct != nil {
		logger.Info("bootstrap administrator present", zap.String("id_number", acct.IDNumber))
	}

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Session:        handlers.NewSessionHandler(),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
