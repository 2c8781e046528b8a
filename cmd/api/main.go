package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/api"
	"github.com/pageza/recipeshare/backend/internal/database"
	"github.com/pageza/recipeshare/backend/internal/logging"
	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/router"
	"github.com/pageza/recipeshare/backend/internal/server"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/store"
)

const serviceName = "recipes-api"

func main() {
	if err := run(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func run() error {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := logging.SetDefault(serviceName, cfg.LogLevel, cfg.LogFormat)
	if !cfg.Environment.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	recipeStore := store.NewGormRecipeStore(db)
	if err := recipeStore.AutoMigrate(ctx); err != nil {
		return fmt.Errorf("failed to prepare recipes table: %w", err)
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	recipeService := service.NewRecipeService(recipeStore, logger)
	recipeHandler := api.NewRecipeHandler(recipeService, logger)
	engine := router.SetupRouter(recipeHandler, router.Options{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Limiter:        limiter,
	})

	srv := server.New(cfg, engine, logger)
	logger.Info("server config",
		"environment", cfg.Environment,
		"addr", srv.Addr(),
		"rateLimit", cfg.RateLimit,
		"rateLimitBurst", cfg.RateLimitBurst,
		"redis", cfg.RedisURL != "",
		"shutdownTimeout", cfg.ShutdownTimeout,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})

	return g.Wait()
}

// newLimiter picks the shared Redis limiter when REDIS_URL is set, else an in-process one.
// A zero rate disables limiting.
func newLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (middleware.Limiter, func(), error) {
	noop := func() {}
	if cfg.RateLimit <= 0 {
		return nil, noop, nil
	}

	if cfg.RedisURL == "" {
		logger.Info("using in-process rate limiter")
		return middleware.NewLocalLimiter(cfg.RateLimit, cfg.RateLimitBurst), noop, nil
	}

	client, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, noop, err
	}
	logger.Info("using redis rate limiter")
	return middleware.NewRecipeAPIRedisLimiter(client, cfg.RateLimit), func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", "error", err)
		}
	}, nil
}
