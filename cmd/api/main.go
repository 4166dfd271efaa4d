package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"timeline/internal/config"
	"timeline/internal/logger"
	"timeline/internal/server"
)

func gracefulShutdown(apiServer *http.Server, log *slog.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exiting")
	done <- true
}

func main() {
	log := logger.New()
	logger.SetDefault(log)

	cfg, err := config.LoadServer()
	if err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	log.Info("Starting image timeline API", "app", cfg.AppName, "version", cfg.AppVersion, "port", cfg.Port)

	apiServer, cleanup, err := server.Bootstrap(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, log, done)

	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("HTTP server error", "error", err)
		cleanup()
		os.Exit(1)
	}

	<-done
	log.Info("Graceful shutdown complete")
}
