package core

// scheduler.go runs background maintenance.
//
// The retention job deletes finished runs older than the configured number of
// days. It runs once on start and then every CheckInterval, logs its outcome
// and never stops the application when a single pass fails.

import (
	"context"
	"errors"
	"time"
)

// RetentionConfig controls the run history purge.
type RetentionConfig struct {
	RunDays       int           // Days to keep finished runs (default: 90)
	CheckInterval time.Duration // How often to purge (default: 24h)
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.RunDays <= 0 {
		c.RunDays = 90
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 24 * time.Hour
	}
	return c
}

// StartRetentionScheduler purges old run history until ctx is cancelled.
// It blocks; start it in its own goroutine.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	cfg = cfg.withDefaults()
	s.log.Info("retention scheduler started",
		"run_days", cfg.RunDays,
		"interval", cfg.CheckInterval,
	)

	s.runRetentionJob(ctx, cfg)

	ticker := s.cfg.Clock.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("retention scheduler stopped")
			return
		case <-ticker.Chan():
			s.runRetentionJob(ctx, cfg)
		}
	}
}

// runRetentionJob performs one purge and returns the number of runs deleted.
func (s *Service) runRetentionJob(ctx context.Context, cfg RetentionConfig) int64 {
	start := time.Now()
	cutoff := s.cfg.Clock.Now().AddDate(0, 0, -cfg.RunDays)

	purged, err := s.cfg.Store.PurgeRuns(ctx, cutoff)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Error("run history purge failed", "error", err)
		}
		return 0
	}

	s.log.Info("purged run history",
		"runs_purged", purged,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return purged
}
