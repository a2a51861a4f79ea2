// Package application wires the configured collaborators into a core.Service.
// Both the HTTP server and the surveyctl CLI start from New.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/surveybase/internal/artifact"
	"github.com/JonMunkholm/surveybase/internal/config"
	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/database"
	"github.com/JonMunkholm/surveybase/internal/report"
	"github.com/JonMunkholm/surveybase/internal/retry"
	"github.com/JonMunkholm/surveybase/internal/survey"
)

// App holds the long-lived resources of a process.
type App struct {
	Config  *config.Config
	Pool    *pgxpool.Pool
	Service *core.Service
}

// Options adjusts New for the calling binary.
type Options struct {
	// Migrate applies pending migrations before the pool is opened.
	Migrate bool
}

// New connects to the database and builds the service from cfg.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := slog.Default()

	if opts.Migrate {
		if err := database.MigrateUp(ctx, log, cfg.Database.URL); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := openPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	svc, err := newService(ctx, cfg, pool, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &App{Config: cfg, Pool: pool, Service: svc}, nil
}

// Close releases the database pool.
func (a *App) Close() {
	a.Pool.Close()
}

func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

func newService(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) (*core.Service, error) {
	loc, err := time.LoadLocation(cfg.Artifact.Timezone)
	if err != nil {
		return nil, fmt.Errorf("artifact timezone: %w", err)
	}

	svcCfg := core.ServiceConfig{
		Logger:     log,
		Store:      core.NewPgStore(pool),
		Report:     report.NewWriter(),
		Limiter:    core.NewRunLimiter(cfg.Run.MaxConcurrent, cfg.Run.MaxWaitTime),
		Location:   loc,
		RunTimeout: cfg.Run.Timeout,
	}

	if cfg.Survey.BaseURL != "" {
		client, err := survey.NewClient(survey.Config{
			BaseURL:           cfg.Survey.BaseURL,
			Username:          cfg.Survey.Username,
			Password:          cfg.Survey.Password,
			ChunkSize:         cfg.Survey.ChunkSize,
			Timeout:           cfg.Survey.Timeout,
			RequestsPerSecond: cfg.Survey.RequestsPerSecond,
			Retry: retry.Config{
				MaxAttempts: cfg.Survey.RetryAttempts,
				BaseBackoff: cfg.Survey.RetryBaseBackoff,
				MaxBackoff:  cfg.Survey.RetryMaxBackoff,
			},
		})
		if err != nil {
			return nil, err
		}
		svcCfg.Survey = client
	} else {
		log.Warn("SURVEY_API_URL is not set; project runs will fail until it is configured")
	}

	if cfg.Artifact.S3Bucket != "" {
		mirror, err := artifact.NewS3Mirror(ctx, artifact.S3Config{
			Bucket: cfg.Artifact.S3Bucket,
			Prefix: cfg.Artifact.S3Prefix,
			Logger: log,
		})
		if err != nil {
			return nil, fmt.Errorf("artifact mirror: %w", err)
		}
		svcCfg.Mirror = mirror
	}

	return core.NewService(svcCfg)
}
