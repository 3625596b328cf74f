package restapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	api := createTestApi(t)

	resp, _ := serveApiAndRetrieveBody(t, api, "/api/where/current-time.json?key=TEST")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Contains(t, resp.Header.Get("Strict-Transport-Security"), "max-age=")
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none';", resp.Header.Get("Content-Security-Policy"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders_CORS(t *testing.T) {
	api := createTestApi(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/where/network.geojson", nil)
	req.Header.Set("Origin", "https://maps.example.org")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
	assert.Equal(t, requestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
	assert.Empty(t, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	api := createTestApi(t)
	handler := api.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/where/current-time.json?key=TEST", nil))
	generated := rec.Header().Get(requestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/where/current-time.json?key=TEST", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))

	// Values that are not UUIDs are replaced.
	req = httptest.NewRequest(http.MethodGet, "/api/where/current-time.json?key=TEST", nil)
	req.Header.Set(requestIDHeader, "<script>")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.NotEqual(t, "<script>", rec.Header().Get(requestIDHeader))
}

func TestCompression(t *testing.T) {
	api := createTestApi(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/where/network.geojson?key=TEST", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	// Small bodies are sent as is.
	req = httptest.NewRequest(http.MethodGet, "/api/where/current-time.json?key=TEST", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "{"))
}

func TestCompression_NotAccepted(t *testing.T) {
	api := createTestApi(t)

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/where/network.geojson?key=TEST", nil))
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "{"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimitMiddleware(1, time.Hour)
	defer rl.Stop()

	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	get := func(key string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/where/lines.json?key="+key, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("a").Code)
	blocked := get("a")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "Rate limit exceeded")

	// Keys are limited independently.
	assert.Equal(t, http.StatusOK, get("b").Code)
}

func TestRateLimitMiddleware_Unlimited(t *testing.T) {
	rl := NewRateLimitMiddleware(-1, time.Second)
	defer rl.Stop()

	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitMiddleware_EvictIdle(t *testing.T) {
	rl := NewRateLimitMiddleware(5, time.Second)
	rl.Stop()
	rl.Stop()

	rl.getLimiter("old")
	rl.getLimiter("fresh")
	rl.mu.Lock()
	rl.limiters["old"].lastSeen = time.Now().Add(-time.Hour)
	rl.mu.Unlock()

	rl.evictIdle(time.Now())
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.limiters, "old")
	assert.Contains(t, rl.limiters, "fresh")
}

func TestMetricsEndpoint(t *testing.T) {
	api := createTestApi(t)

	_, _ = serveApiAndRetrieveBody(t, api, "/api/where/path.json?key=TEST&from=M2:TERNES&to=M1:CHATELET")
	resp, body := serveApiAndRetrieveBody(t, api, "/metrics")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(body)
	assert.Contains(t, text, `metrograph_http_requests_total{code="200",route="/api/where/path.json"} 1`)
	assert.Contains(t, text, `metrograph_queries_total{kind="path",outcome="found"} 1`)
}
