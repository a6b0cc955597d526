// Package main is the entry point for the partydex team builder service.
//
// Startup order:
// 1. Load configuration and build the logger
// 2. Wire dependencies (database, repositories, services, jobs)
// 3. Build the roster cache and type matrix from PokeAPI
// 4. Start the scheduler and the HTTP server
// 5. Wait for a shutdown signal and stop gracefully
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/partydex/partydex/internal/config"
	"github.com/partydex/partydex/internal/di"
	"github.com/partydex/partydex/internal/server"
	"github.com/partydex/partydex/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Int("port", cfg.Port).
		Str("data_dir", cfg.DataDir).
		Msg("Starting partydex")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	// A signal during the startup build cancels it
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Both caches are built before the server accepts requests
	if err := di.BuildCaches(ctx, container, jobs, log); err != nil {
		container.Close()
		log.Fatal().Err(err).Msg("Failed to build caches")
	}

	jobs.Scheduler.Start()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
		Jobs:      jobs,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	// Stop scheduling new rebuilds; a running job finishes first
	jobs.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
