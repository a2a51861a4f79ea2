package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted appropriately based on request type (HTMX, JSON, or HTML)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. Error is mapped via core.MapError to get the user message and code
//  4. The code selects the HTTP status
//  5. Technical error + context is logged with request ID for correlation
//  6. User message is rendered in appropriate format for the client

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/surveybase/internal/core"
	"github.com/JonMunkholm/surveybase/internal/logging"
	"github.com/JonMunkholm/surveybase/internal/web/templates"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusByCode maps user message codes to HTTP statuses. Codes not listed
// are server errors.
var statusByCode = map[string]int{
	"VAL001":  http.StatusBadRequest,
	"RULE001": http.StatusBadRequest,
	"PRJ001":  http.StatusNotFound,
	"PRJ002":  http.StatusNotFound,
	"RUN002":  http.StatusNotFound,
	"DB001":   http.StatusConflict,
	"DB002":   http.StatusConflict,
	"DB003":   http.StatusConflict,
	"CFG001":  http.StatusUnprocessableEntity,
	"COL001":  http.StatusUnprocessableEntity,
	"COL002":  http.StatusUnprocessableEntity,
	"DB008":   http.StatusUnprocessableEntity,
	"RATE001": http.StatusTooManyRequests,
	"RUN001":  http.StatusServiceUnavailable,
	"UPS001":  http.StatusBadGateway,
	"UPS002":  http.StatusBadGateway,
	"UPS003":  http.StatusBadGateway,
	"REQ002":  http.StatusGatewayTimeout,
}

func statusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an appropriate response
// based on the request type (HTMX, JSON, or HTML).
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := core.MapError(err)
	statusCode := statusForCode(userMsg.Code)

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		log.Error("request error", attrs...)
	} else {
		log.Warn("request error", attrs...)
	}

	if isHTMX(r) {
		renderErrorPartial(w, r, userMsg, statusCode)
	} else if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
	} else {
		respondErrorHTML(w, r, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML renders the full error page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
