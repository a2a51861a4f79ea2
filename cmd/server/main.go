package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/surveybase/internal/application"
	"github.com/JonMunkholm/surveybase/internal/config"
	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/logging"
	"github.com/JonMunkholm/surveybase/internal/web"
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

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"run_max_concurrent", cfg.Run.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"artifact_timezone", cfg.Artifact.Timezone,
		"s3_mirror", cfg.Artifact.S3Bucket != "",
	)

	ctx := context.Background()
	app, err := application.New(ctx, cfg, application.Options{Migrate: cfg.Database.AutoMigrate})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := web.NewServer(app.Service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	go app.Service.StartRetentionScheduler(jobCtx, core.RetentionConfig{
		RunDays:       cfg.Retention.RunDays,
		CheckInterval: cfg.Retention.CheckInterval,
	})

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active runs to complete (with timeout)
		limiter := app.Service.Limiter()
		if active := limiter.ActiveCount(); active > 0 {
			slog.Info("waiting for runs to complete", "active", active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("runs did not complete in time", "error", err)
			} else {
				slog.Info("all runs completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-shutdownDone
	slog.Info("server stopped")
}
