// Package app wires configuration into the stores, gateway and services shared
// by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"alcyxob/fitness-planner/internal/ai"
	"alcyxob/fitness-planner/internal/config"
	"alcyxob/fitness-planner/internal/metrics"
	"alcyxob/fitness-planner/internal/ratelimit"
	"alcyxob/fitness-planner/internal/repository"
	"alcyxob/fitness-planner/internal/repository/memory"
	mongorepo "alcyxob/fitness-planner/internal/repository/mongo"
	"alcyxob/fitness-planner/internal/repository/planstore"
	"alcyxob/fitness-planner/internal/service"
	"alcyxob/fitness-planner/internal/storage"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App holds the constructed services. Close releases the database connection.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Plans    service.PlanService
	Images   service.ImageService
	Settings service.SettingsService

	closers []func()
}

// NewLogger builds a zap logger from the log section.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	return zc.Build()
}

// Policies converts the configured windows into limiter policies.
func Policies(cfg config.RateLimitConfig) service.Policies {
	return service.Policies{
		Plan:         ratelimit.Policy{Key: "plan", Limit: cfg.Plan.Limit, Interval: cfg.Plan.Interval},
		Alternatives: ratelimit.Policy{Key: "alternatives", Limit: cfg.Alternatives.Limit, Interval: cfg.Alternatives.Interval},
		Image:        ratelimit.Policy{Key: "image", Limit: cfg.Image.Limit, Interval: cfg.Image.Interval},
	}
}

// AITimeout is the per-request deadline of the AI client. A value of zero or
// less falls back to ai.DefaultTimeout.
func AITimeout(cfg config.AIConfig) time.Duration {
	if cfg.Timeout <= 0 {
		return ai.DefaultTimeout
	}
	return cfg.Timeout
}

// New connects the durable store and builds every service.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: metrics.New()}

	durable, err := a.durableStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	// The draft slot lives for the lifetime of the process.
	ephemeral := memory.NewKVStore()
	plans := planstore.New(durable, ephemeral, planstore.WithLogger(logger))

	limiter := ratelimit.New(durable, ratelimit.WithMetrics(a.Metrics), ratelimit.WithLogger(logger))
	a.Settings = service.NewSettingsService(durable, cfg.AI.APIKey)

	gateway := ai.NewClient(a.Settings,
		ai.WithBaseURL(cfg.AI.BaseURL),
		ai.WithModels(cfg.AI.TextModel, cfg.AI.ImageModel),
		ai.WithHTTPClient(&http.Client{Timeout: AITimeout(cfg.AI)}),
		ai.WithLogger(logger),
		ai.WithMetrics(a.Metrics),
	)

	var archive storage.FileStorage
	if cfg.S3.Enabled {
		archive, err = storage.NewS3Storage(ctx, cfg.S3, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init image archive: %w", err)
		}
	}

	policies := Policies(cfg.RateLimit)
	a.Plans = service.NewPlanService(plans, gateway, limiter, policies, logger)
	a.Images = service.NewImageService(plans, gateway, limiter, policies, archive, cfg.S3.PresignExpiry, logger)
	return a, nil
}

func (a *App) durableStore(ctx context.Context) (repository.KeyValueStore, error) {
	switch strings.ToLower(a.Config.Storage.Driver) {
	case config.StorageDriverMemory:
		a.Logger.Warn("using in-memory storage; saved plans are lost on exit")
		return memory.NewKVStore(), nil
	case config.StorageDriverMongo, "":
	default:
		return nil, fmt.Errorf("unknown storage driver %q", a.Config.Storage.Driver)
	}

	client, err := mongorepo.ConnectDB(ctx, a.Config.Database.URI)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if err := mongorepo.DisconnectDB(client); err != nil {
			a.Logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	})
	db := client.Database(a.Config.Database.Name)
	a.Logger.Info("database connection established", zap.String("database", a.Config.Database.Name))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongorepo.EnsureKVIndexes(ctx, mongorepo.KVCollection(db, a.Config.Database.Collection)); err != nil {
			a.Logger.Warn("index creation failed", zap.Error(err))
		}
	}()

	return mongorepo.NewMongoKVStore(db, a.Config.Database.Collection), nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
