package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	allowed   bool
	remaining int
	resetAt   int64
	keys      []string
}

func (f *fakeLimiter) Check(_ context.Context, key string, _ int) (bool, int, int64) {
	f.keys = append(f.keys, key)
	return f.allowed, f.remaining, f.resetAt
}

func rateLimitTestHandler(limiter RateLimiter, limit int) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	m := &AuthRateLimitMiddleware{limiter: limiter, limit: limit}
	return m.Handler(next)
}

func TestAuthRateLimitMiddleware(t *testing.T) {
	t.Run("allowed request passes with budget headers", func(t *testing.T) {
		limiter := &fakeLimiter{allowed: true, remaining: 7, resetAt: 1700000000}
		h := rateLimitTestHandler(limiter, 10)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:51234"
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "7", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "1700000000", rec.Header().Get("X-RateLimit-Reset"))

		// Keyed by the client IP alone, without the port.
		require.Len(t, limiter.keys, 1)
		assert.Equal(t, "203.0.113.9", limiter.keys[0])
	})

	t.Run("exhausted budget is 429 with a retry hint", func(t *testing.T) {
		limiter := &fakeLimiter{allowed: false}
		h := rateLimitTestHandler(limiter, 10)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))

		var resp map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Rate limit exceeded", resp["error"])
		assert.Equal(t, "RATE_LIMIT_EXCEEDED", resp["code"])
	})
}
