// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"placement-portal-backend/internal/auth"
	"placement-portal-backend/internal/config"
	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/events"
	"placement-portal-backend/internal/metrics"
	"placement-portal-backend/internal/storage"
)

// MyServer holds the dependencies shared by every route
type MyServer struct {
	Config    *config.Config
	DB        *database.DBinstanceStruct
	Logger    *slog.Logger
	Metrics   *metrics.Manager
	Tokens    *auth.TokenManager
	Blacklist auth.JwtBlacklistStore
	Redis     *redis.Client
	Publisher events.Publisher
	Storage   *storage.CloudStorageClient

	cron *cron.Cron
}

// NewServer connects every backing service named in cfg. Redis, RabbitMQ and
// the storage bucket are optional: when unset the server falls back to the
// in-memory blacklist and rate limiter, drops events and disables uploads.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*MyServer, error) {
	db, err := database.GetMainDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("database failed to initialize: %w", err)
	}

	s := &MyServer{
		Config:    cfg,
		DB:        db,
		Logger:    logger,
		Metrics:   metrics.NewManager(metrics.WithGoCollectors()),
		Tokens:    auth.NewTokenManager(cfg.SecretKey, cfg.TokenTTL),
		Publisher: events.NoopPublisher{},
		cron:      cron.New(),
	}

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Redis = client
		s.Blacklist = auth.NewRedisBlacklistStore(client)
		logger.Info("using redis for token blacklist and rate limiting")
	} else {
		memory := auth.NewInMemoryBlacklistStore()
		if _, err := auth.ScheduleCleanUp(s.cron, memory, cfg.BlacklistSweepSpec, s.Metrics.RecordBlacklistSwept); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("schedule blacklist sweep: %w", err)
		}
		s.Blacklist = memory
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Publisher = publisher
		logger.Info("publishing domain events", slog.String("queue", cfg.RabbitMQQueue))
	}

	if cfg.GCSBucket != "" {
		client, err := storage.NewCloudStorageClient(ctx, cfg.GCSBucket)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Storage = client
	} else {
		logger.Warn("gcs_bucket is not set, resume uploads are disabled")
	}

	s.cron.Start()
	return s, nil
}

// HTTPServer returns the http.Server serving RegisterRoutes on the configured port
func (s *MyServer) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.RegisterRoutes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

// Close stops the scheduler and releases every backing connection
func (s *MyServer) Close() error {
	var errs []error
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.Publisher != nil {
		errs = append(errs, s.Publisher.Close())
	}
	if s.Storage != nil {
		errs = append(errs, s.Storage.Close())
	}
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	return errors.Join(errs...)
}
