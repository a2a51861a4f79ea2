package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/surveybase/internal/config"
)

// APIKeyAuth returns middleware that validates the X-API-Key header, or an
// "Authorization: Bearer" token, against the configured keys.
// If RequireAPIKey is false, all requests pass through.
// If RequireAPIKey is true but no keys are configured, all requests are rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := requestKey(r)
			if apiKey == "" {
				slog.Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, http.StatusUnauthorized, "missing API key", "AUTH001")
				return
			}

			if !isValidAPIKey(apiKey, cfg.APIKeys) {
				slog.Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, http.StatusForbidden, "invalid API key", "AUTH002")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requestKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   message,
		"message": message,
		"code":    code,
	})
}

// isValidAPIKey checks if the provided key matches any configured key.
// Every key is compared in constant time, so timing does not reveal which
// key (if any) matched.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
