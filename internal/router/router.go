package router

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	_ "gamecatalog/backend/docs" // registers the swagger spec
	"gamecatalog/backend/internal/handler"
	"gamecatalog/backend/internal/logging"
	"gamecatalog/backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

// Options carries what the router needs from main.
type Options struct {
	Logger       *slog.Logger
	Games        *handler.GameHandler
	References   *handler.ReferenceHandler
	Metrics      *middleware.Metrics
	AllowOrigins []string
	// Health reports readiness, typically a database ping.
	Health func(ctx context.Context) error
}

// New builds the gin engine with middleware and all routes.
func New(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		cors.New(corsConfig(opts.AllowOrigins)),
	)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", opts.Metrics.Handler())
	}
	router.Use(middleware.Errors(opts.Logger))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoints
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/healthz", func(c *gin.Context) {
		if opts.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Health(ctx); err != nil {
				opts.Logger.Warn("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	apiV1 := router.Group(BasePath)
	{
		opts.Games.Register(apiV1)
		opts.References.Register(apiV1)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Location", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
