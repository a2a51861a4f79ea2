package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(5), 5)
	defer limiter.Stop()

	ip := "192.168.1.1"
	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(ip), "request %d should be allowed", i+1)
	}
	assert.False(t, limiter.Allow(ip), "burst exhausted")

	assert.True(t, limiter.Allow("192.168.1.2"), "other IPs have their own bucket")
}

func TestRateLimiter_Refill(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(10), 2)
	defer limiter.Stop()

	ip := "192.168.1.1"
	assert.True(t, limiter.Allow(ip))
	assert.True(t, limiter.Allow(ip))
	assert.False(t, limiter.Allow(ip))

	// 10/s refills a token every 100ms
	time.Sleep(150 * time.Millisecond)
	assert.True(t, limiter.Allow(ip))
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Minute), 1)
	defer limiter.Stop()

	allowed, _ := limiter.AllowWithRetry("10.0.0.1")
	assert.True(t, allowed)

	allowed, retryAfter := limiter.AllowWithRetry("10.0.0.1")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, 50*time.Second)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(1), 1)
	limiter.Stop()
	limiter.Stop()
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Minute), 1)
	defer limiter.Stop()

	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// same IP from another port shares the bucket
	req.RemoteAddr = "10.0.0.1:5678"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE001")
}
