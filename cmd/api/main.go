// Command api serves the placement portal HTTP API.
//
// @title Placement Portal API
// @version 1.0
// @description Campus placement portal: students apply to jobs posted by recruiters, admins oversee users and audits.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	"placement-portal-backend/internal/config"
	"placement-portal-backend/internal/logger"
	"placement-portal-backend/internal/server"
)

func gracefulShutdown(apiServer *http.Server, done chan<- bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	slog.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.Any("error", err))
	}

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid log level", slog.Any("error", err))
		os.Exit(1)
	}

	s, err := server.NewServer(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to start server", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error("failed to release resources", slog.Any("error", err))
		}
	}()

	apiServer := s.HTTPServer()
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, done)

	log.Info("listening", slog.String("addr", apiServer.Addr))
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server error", slog.Any("error", err))
		return
	}

	<-done
	log.Info("graceful shutdown complete")
}
