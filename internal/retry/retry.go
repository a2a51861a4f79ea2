// Package retry runs an operation with jittered exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"time"
)

// Config holds retry configuration. MaxAttempts counts the first try.
type Config struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseBackoff: 500 * time.Millisecond,
		MaxBackoff:  5 * time.Second,
	}
}

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// Do calls fn until it succeeds, returns a non-retryable error, the context
// ends, or MaxAttempts is reached. The last error is returned wrapped.
func Do(ctx context.Context, cfg Config, op string, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := Backoff(cfg.BaseBackoff, cfg.MaxBackoff, attempt-1)
			slog.Warn("retrying",
				"op", op,
				"attempt", attempt,
				"backoff_ms", backoff.Milliseconds(),
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
	}

	if cfg.MaxAttempts == 1 {
		return lastErr
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, cfg.MaxAttempts, lastErr)
}

// IsRetryable reports whether err is worth another attempt: network
// timeouts, 429 and 5xx gateway-style statuses.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		switch sc.StatusCode() {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		case 0:
			// transport failure without a response
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return false
}

// Backoff returns base * 2^attempt capped at max, scaled by a random factor
// in [0.5, 1.0).
func Backoff(base, max time.Duration, attempt int) time.Duration {
	backoff := base * time.Duration(1<<uint(attempt))
	if backoff > max || backoff <= 0 {
		backoff = max
	}
	jitter := 0.5 + rand.Float64()*0.5
	return time.Duration(float64(backoff) * jitter)
}
