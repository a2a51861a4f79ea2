// Package logging provides structured logging configuration using log/slog.
//
// This package integrates with chi's RequestID middleware to propagate
// request IDs through structured log entries, enabling request tracing
// across the entire request lifecycle.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
)

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json", "pretty" (default: "text")
//
// Use "json" format in production for machine parsing (ELK, CloudWatch, etc.)
// Use "text" or "pretty" (colored) format in development for human readability.
func Setup(level, format string) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level, format)))
}

// NewHandler builds the slog handler Setup installs, writing to w.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	lvl := parseLevel(level)

	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	case "pretty":
		return tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				// drop empty strings so optional ids don't clutter the line
				if s, ok := a.Value.Any().(string); ok && s == "" {
					return slog.Attr{}
				}
				return a
			},
		})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromContext returns a logger enriched with request context.
//
// When called with a request context that contains a chi RequestID,
// the returned logger automatically includes request_id in all log entries.
// This enables correlation of all log entries for a single request.
//
// Usage:
//
//	func handleRequest(w http.ResponseWriter, r *http.Request) {
//	    logger := logging.FromContext(r.Context())
//	    logger.Info("processing request", "project_id", projectID)
//	}
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	// Chi's RequestID middleware stores the ID in context
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
// This is useful for creating operation-specific loggers that carry
// consistent context through a multi-step process.
//
// Usage:
//
//	runLogger := logging.WithFields(ctx,
//	    "run_id", runID,
//	    "project_id", projectID,
//	)
//	runLogger.Info("run started")
//	// ... later ...
//	runLogger.Info("run completed", "rows", table.Rows())
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
