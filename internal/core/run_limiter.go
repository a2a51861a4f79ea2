package core

// run_limiter.go bounds how many project runs execute at once.
//
// A run holds a large table in memory and keeps the survey API busy for its
// whole duration, so the server admits only a few at a time. Callers that
// find every slot taken wait up to maxWait and then fail with ErrTooManyRuns.
// On shutdown, WaitForDrain blocks until in-flight runs have released.

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/surveybase/internal/metrics"
)

// ErrTooManyRuns is returned when all run slots are occupied and the wait
// timeout expires.
var ErrTooManyRuns = errors.New("too many runs in progress, please try again later")

// DefaultMaxConcurrentRuns is the default limit for parallel runs.
const DefaultMaxConcurrentRuns = 2

// DefaultRunWaitTime is how long to wait for a slot before rejecting.
const DefaultRunWaitTime = 30 * time.Second

// RunLimiter is a counting semaphore for project runs.
type RunLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int32
}

// NewRunLimiter allows at most maxConcurrent simultaneous runs.
func NewRunLimiter(maxConcurrent int, maxWait time.Duration) *RunLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRuns
	}
	if maxWait <= 0 {
		maxWait = DefaultRunWaitTime
	}
	return &RunLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot and returns the function that gives it back. The
// release function is safe to call more than once.
func (l *RunLimiter) Acquire(ctx context.Context) (release func(), err error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return l.hold(), nil
	case <-timer.C:
		return nil, ErrTooManyRuns
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *RunLimiter) TryAcquire() (release func(), ok bool) {
	select {
	case l.slots <- struct{}{}:
		return l.hold(), true
	default:
		return nil, false
	}
}

func (l *RunLimiter) hold() func() {
	l.active.Add(1)
	metrics.RunsInFlight.Inc()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.active.Add(-1)
			metrics.RunsInFlight.Dec()
			<-l.slots
		})
	}
}

// ActiveCount returns the number of runs holding a slot.
func (l *RunLimiter) ActiveCount() int { return int(l.active.Load()) }

// MaxConcurrent returns the slot count.
func (l *RunLimiter) MaxConcurrent() int { return cap(l.slots) }

// WaitForDrain blocks until every slot is released or ctx ends.
func (l *RunLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunLimiterStatus is a snapshot for the health endpoint.
type RunLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *RunLimiter) Status() RunLimiterStatus {
	return RunLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
