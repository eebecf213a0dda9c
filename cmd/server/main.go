package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/app"
	"github.com/nekogravitycat/stay-booking-backend/internal/config"
	"github.com/nekogravitycat/stay-booking-backend/internal/db"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal("failed to load config", "error", err)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "stay-booking-api",
	})

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect to db", "error", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal("failed to migrate db", "error", err)
	}

	container, err := app.NewContainer(ctx, cfg, pool, log)
	if err != nil {
		log.Fatal("failed to initialize application", "error", err)
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		log.Info("server running", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "error", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server first so no new confirmations are queued.
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	if err := container.Close(shutdownCtx); err != nil {
		log.Error("failed to close components", "error", err)
	}

	log.Info("server exited gracefully")
}
