package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/querychart/internal/config"
	"github.com/JonMunkholm/querychart/internal/core"
	"github.com/JonMunkholm/querychart/internal/logging"
	"github.com/JonMunkholm/querychart/internal/render"
	"github.com/JonMunkholm/querychart/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	locale, err := core.ParseLocale(cfg.Chart.Locale)
	if err != nil {
		slog.Error("invalid chart locale", "locale", cfg.Chart.Locale, "error", err)
		os.Exit(1)
	}

	service, err := core.NewService(cfg.Chart.CacheSize,
		core.WithBuilder(core.NewBuilder(core.WithLocale(locale))),
		core.WithMaxInputBytes(cfg.Chart.MaxInputBytes),
	)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	limiter := render.NewLimiter(cfg.Render.MaxConcurrent, cfg.Render.MaxWaitTime)
	renderer := render.NewRenderer(
		render.WithSize(cfg.Render.Width, cfg.Render.Height),
		render.WithLimiter(limiter),
	)
	canvases := render.NewRegistry(renderer)

	server := web.NewServer(cfg, service, renderer, canvases)

	// Background jobs stop with jobCtx
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go canvases.StartSweeper(jobCtx, render.SweepConfig{
		MaxIdle:  cfg.Render.CanvasIdleTimeout,
		Interval: cfg.Render.SweepInterval,
	})

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := limiter.Active(); active > 0 {
			slog.Info("waiting for renders to complete", "active", active)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		cancelJobs()
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
