// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surveybase_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "surveybase_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Survey platform
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surveybase_upstream_requests_total",
			Help: "Total number of survey API requests",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "surveybase_upstream_request_duration_seconds",
			Help:    "Duration of survey API requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
		},
		[]string{"endpoint"},
	)

	// Runs
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surveybase_runs_total",
			Help: "Total number of project runs by outcome",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "surveybase_run_duration_seconds",
			Help:    "Duration of project runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)

	RunsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "surveybase_runs_in_flight",
			Help: "Number of project runs currently executing",
		},
	)

	DiagnosticsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surveybase_diagnostics_total",
			Help: "Total number of engine diagnostics emitted",
		},
	)
)

// Middleware returns a chi middleware that records HTTP metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordUpstream records one survey API call.
func RecordUpstream(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, label).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordRun records a finished run.
func RecordRun(status string, duration time.Duration, diagnostics int) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
	DiagnosticsTotal.Add(float64(diagnostics))
}
