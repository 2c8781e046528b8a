package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/recipeshare/backend/internal/api"
	"github.com/pageza/recipeshare/backend/internal/middleware"
)

// Options holds the cross-cutting settings for the router
type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// Limiter guards /api when set
	Limiter middleware.Limiter
}

// SetupRouter configures the application routes
func SetupRouter(recipeHandler *api.RecipeHandler, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Metrics(),
		middleware.Logger(logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	router.NoRoute(middleware.NoRoute)
	router.NoMethod(middleware.NoMethod)

	router.GET("/healthz", recipeHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	apiGroup := router.Group("/api")
	if opts.Limiter != nil {
		apiGroup.Use(middleware.RateLimit(opts.Limiter, logger))
	}
	recipeHandler.RegisterRoutes(apiGroup)

	return router
}
