// Package web provides the HTTP server for survey projects: HTML pages for
// browsing projects and their runs, and a JSON API under /api.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/JonMunkholm/surveybase/internal/config"
	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/metrics"
	appmw "github.com/JonMunkholm/surveybase/internal/web/middleware"
)

// Server is the HTTP server for survey projects.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	// nil when rate limiting is disabled
	requestLimiter *RateLimiter
	runLimiter     *RateLimiter
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	if cfg.Rate.Enabled {
		perMinute := max(cfg.Rate.RequestsPerMinute, 1)
		s.requestLimiter = NewRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), max(perMinute/5, 1))

		runs := max(cfg.Rate.RunLimit, 1)
		s.runLimiter = NewRateLimiter(rate.Every(time.Minute/time.Duration(runs)), 1)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(appmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(appmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Middleware)
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.requestLimiter != nil {
		s.router.Use(RateLimitMiddleware(s.requestLimiter))
	}
}

// setupRoutes configures all HTTP routes.
//
// Runs are synchronous and may outlast the request timeout, so the run
// routes sit outside the timeout group and carry their own stricter limiter.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	timeout := middleware.Timeout(s.cfg.Server.RequestTimeout)

	// Pages
	s.router.Group(func(r chi.Router) {
		r.Use(timeout)
		r.Get("/", s.handleDashboard)
		r.Get("/projects/{projectID}", s.handleProjectPage)
		r.Get("/projects/{projectID}/artifact", s.handleDownloadArtifact)
	})
	s.router.With(s.runLimit).Post("/projects/{projectID}/run", s.handleRunFromPage)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Use(appmw.APIKeyAuth(&s.cfg.Security))

		r.Group(func(r chi.Router) {
			r.Use(timeout)

			r.Get("/projects", s.handleListProjects)
			r.Post("/projects", s.handleCreateProject)
			r.Get("/projects/{projectID}", s.handleGetProject)
			r.Put("/projects/{projectID}", s.handleUpdateProject)
			r.Delete("/projects/{projectID}", s.handleDeleteProject)

			r.Get("/projects/{projectID}/rules", s.handleListRules)
			r.Post("/projects/{projectID}/rules", s.handleCreateRule)
			r.Delete("/projects/{projectID}/rules/{ruleID}", s.handleDeleteRule)

			r.Get("/projects/{projectID}/runs", s.handleListRuns)
			r.Get("/projects/{projectID}/artifact", s.handleDownloadArtifact)
		})

		r.With(s.runLimit).Post("/projects/{projectID}/run", s.handleRunProject)
	})
}

// runLimit applies the per-IP run limiter when rate limiting is enabled.
func (s *Server) runLimit(next http.Handler) http.Handler {
	if s.runLimiter == nil {
		return next
	}
	return RateLimitMiddleware(s.runLimiter)(next)
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.requestLimiter != nil {
		s.requestLimiter.Stop()
	}
	if s.runLimiter != nil {
		s.runLimiter.Stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Pages carry their own inline stylesheet and no scripts
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'none'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			}

			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}
