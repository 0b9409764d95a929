package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyricsmith/internal/ratelimit"
	"lyricsmith/internal/songwriting"
	"lyricsmith/internal/testsupport"
)

func TestResponsesCarrySecurityHeaders(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/api/health", "/api/generate-song", "/api/nope"} {
		rec := h.do(http.MethodGet, path, nil)
		hdr := rec.Header()
		assert.Equal(t, "no-store, no-cache, must-revalidate, proxy-revalidate", hdr.Get("Cache-Control"), path)
		assert.Equal(t, "nosniff", hdr.Get("X-Content-Type-Options"), path)
		assert.Equal(t, "DENY", hdr.Get("X-Frame-Options"), path)
		assert.Equal(t, "1; mode=block", hdr.Get("X-XSS-Protection"), path)
		assert.Equal(t, "strict-origin-when-cross-origin", hdr.Get("Referrer-Policy"), path)
		assert.Equal(t, "no-cache", hdr.Get("Pragma"), path)
		assert.Equal(t, "0", hdr.Get("Expires"), path)
		assert.Equal(t, "http://localhost:3000", hdr.Get("Access-Control-Allow-Origin"), path)
		assert.NotEmpty(t, hdr.Get("X-Request-ID"), path)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/api/health", nil, "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestDisallowedOriginIsRejectedWithoutConsumingQuota(t *testing.T) {
	h := newHarness(t, withConfig(testsupport.WithRateLimit(1, 60)))

	rec := h.do(http.MethodGet, "/api/generate-song", nil, "Origin", "https://evil.example")
	require.Equal(t, http.StatusForbidden, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "CORS policy violation", env.Error)
	assert.Equal(t, "CORS_POLICY_VIOLATION", env.Code)

	rec = h.do(http.MethodGet, "/api/generate-song", nil, "Origin", "http://localhost:5173")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightBypassesLimiter(t *testing.T) {
	h := newHarness(t, withConfig(testsupport.WithRateLimit(1, 60)))
	for i := 0; i < 3; i++ {
		rec := h.do(http.MethodOptions, "/api/chat", nil, "Origin", "http://localhost:5173")
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET,POST,PUT,PATCH,DELETE,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
		assert.Empty(t, rec.Body.String())
	}
}

func TestRateLimitRejectsRequestOverLimit(t *testing.T) {
	h := newHarness(t, withConfig(testsupport.WithRateLimit(2, 30)))
	headers := []string{"X-Forwarded-For", "203.0.113.7, 10.0.0.1"}

	first := h.do(http.MethodGet, "/api/generate-song", nil, headers...)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := h.do(http.MethodGet, "/api/generate-song", nil, headers...)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := h.do(http.MethodGet, "/api/generate-song", nil, headers...)
	require.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "30", third.Header().Get("Retry-After"))
	env := decode(t, third)
	assert.False(t, env.Success)
	assert.Equal(t, "Rate limit exceeded", env.Error)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", env.Code)
	assert.JSONEq(t, `{"limit":2,"windowSeconds":30}`, string(env.Details))

	other := h.do(http.MethodGet, "/api/generate-song", nil, "X-Real-IP", "198.51.100.2")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestHealthIsNotRateLimited(t *testing.T) {
	h := newHarness(t, withConfig(testsupport.WithRateLimit(1, 60)))
	for i := 0; i < 3; i++ {
		rec := h.do(http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

type brokenStore struct{}

func (brokenStore) Count(context.Context, ratelimit.Key, time.Time) (int, error) {
	return 0, errors.New("database is locked")
}

func (brokenStore) Record(context.Context, ratelimit.Key, time.Time) error {
	return errors.New("database is locked")
}

func TestLimiterFailureFailsOpen(t *testing.T) {
	h := newHarness(t, withLimiterStore(brokenStore{}), withFailOpen(true))
	rec := h.do(http.MethodGet, "/api/generate-song", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLimiterFailureFailsClosed(t *testing.T) {
	h := newHarness(t, withLimiterStore(brokenStore{}), withFailOpen(false))
	rec := h.do(http.MethodGet, "/api/generate-song", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "RATE_LIMIT_UNAVAILABLE", decode(t, rec).Code)
}

func TestUnknownPathAndMethod(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Code)

	rec = h.do(http.MethodDelete, "/api/chat", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", decode(t, rec).Code)
	assert.Equal(t, "OPTIONS, POST", rec.Header().Get("Allow"))
}

func TestUnknownPathAndMethodConsumeQuota(t *testing.T) {
	h := newHarness(t, withConfig(testsupport.WithRateLimit(1, 60)))
	headers := []string{"X-Real-IP", "192.0.2.40"}

	rec := h.do(http.MethodGet, "/api/nope", nil, headers...)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	rec = h.do(http.MethodGet, "/api/nope", nil, headers...)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = h.do(http.MethodDelete, "/api/chat", nil, headers...)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	rec = h.do(http.MethodDelete, "/api/chat", nil, headers...)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = h.do(http.MethodGet, "/elsewhere", nil, headers...)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestValidationGate(t *testing.T) {
	h := newHarness(t)

	t.Run("content type", func(t *testing.T) {
		req := h.do(http.MethodPost, "/api/chat", nil, "Content-Type", "text/plain")
		require.Equal(t, http.StatusBadRequest, req.Code)
		env := decode(t, req)
		assert.Equal(t, "INVALID_CONTENT_TYPE", env.Code)
		assert.Equal(t, "Content-Type must be application/json", env.Error)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/api/chat", `{"message":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec)
		assert.Equal(t, "INVALID_REQUEST_BODY", env.Code)
		assert.Equal(t, "Invalid request body", env.Error)
	})

	t.Run("schema violations", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/api/generate-song", map[string]any{
			"genre":    "polka",
			"vibe":     "sad",
			"sections": []string{"verse", "outro"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", env.Code)
		assert.Equal(t, "Validation failed", env.Error)

		var details []struct {
			Field string `json:"field"`
			Code  string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(env.Details, &details))
		byField := map[string]string{}
		for _, d := range details {
			byField[d.Field] = d.Code
		}
		assert.Equal(t, "invalid_enum_value", byField["genre"])
		assert.Equal(t, "required", byField["theme"])
		assert.Equal(t, "invalid_enum_value", byField["sections[1]"])
		assert.NotContains(t, byField, "vibe")
	})

	t.Run("type mismatch", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/api/generate-song", `{"genre":5,"vibe":"sad","theme":"x"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", env.Code)
		assert.Contains(t, string(env.Details), `"invalid_type"`)
		assert.Contains(t, string(env.Details), `"genre"`)
	})

	t.Run("type mismatch alongside missing fields", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/api/generate-song", `{"genre":5,"sections":"verse"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", env.Code)

		var details []struct {
			Field string `json:"field"`
			Code  string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(env.Details, &details))
		byField := map[string]string{}
		for _, d := range details {
			byField[d.Field] = d.Code
		}
		assert.Equal(t, map[string]string{
			"genre":    "invalid_type",
			"sections": "invalid_type",
			"vibe":     "required",
			"theme":    "required",
		}, byField)
	})

	t.Run("numeric bounds", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/api/preview-voice", map[string]any{
			"lyrics":      "la",
			"artistStyle": "adele",
			"duration":    30,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, string(decode(t, rec).Details), `"too_big"`)
	})
}

type panickyWriter struct{ songwriting.MockWriter }

func (panickyWriter) Chat(context.Context, songwriting.ChatParams) (string, error) {
	panic("writer exploded")
}

func TestPanicBecomesInternalError(t *testing.T) {
	h := newHarness(t, withWriter(panickyWriter{}))
	rec := h.do(http.MethodPost, "/api/chat", map[string]string{"message": "hello"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", env.Code)
	assert.Equal(t, "Internal server error", env.Error)
	assert.NotContains(t, rec.Body.String(), "exploded")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/api/health", nil)

	rec := h.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "lyricsmith_http_requests_total"))
}
