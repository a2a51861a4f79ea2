package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/surveybase/internal/logging"
)

// Logger is an HTTP middleware that logs one structured line per request.
//
// The logger comes from logging.FromContext, so every line carries the chi
// request id. Fields: method, path, status, bytes, duration_ms, ip and
// user_agent. Server errors log at error level.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		logger := logging.FromContext(r.Context())
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request", args...)
			return
		}
		logger.Info("request", args...)
	})
}
