package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/database"
	"gamecatalog/backend/internal/handler"
	"gamecatalog/backend/internal/logging"
	"gamecatalog/backend/internal/middleware"
	"gamecatalog/backend/internal/router"
	"gamecatalog/backend/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @title           Game Catalog API
// @version         1.0
// @description     Manages a catalog of video games, their genre and the platforms they run on.
// @host            localhost:8080
// @BasePath        /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("closing database", "error", err)
		}
	}()
	logger.Info("database connected", "type", cfg.DBType)

	if err := prepare(context.Background(), db, cfg); err != nil {
		return err
	}

	s := store.NewGormStore(db)
	engine := router.New(router.Options{
		Logger:       logger,
		Games:        handler.NewGameHandler(s, logger, handler.Options{DetailIncludesPlatforms: cfg.DetailIncludePlatforms}),
		References:   handler.NewReferenceHandler(s),
		Metrics:      middleware.NewMetrics("gamecatalog"),
		AllowOrigins: cfg.CORSAllowOrigins,
		Health: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, srv, logger, cfg)
}

// prepare migrates the schema and loads the reference catalogs.
func prepare(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	if !cfg.SeedReferenceData {
		return nil
	}
	data, err := database.DefaultReferenceData()
	if err != nil {
		return err
	}
	return database.Seed(ctx, db, data)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger, cfg *config.Config) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is running", "addr", srv.Addr)
		logger.Info("swagger UI is available", "url", "http://localhost:"+cfg.Port+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
