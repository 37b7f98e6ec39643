package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/health"
)

func loadConfig(t *testing.T) *config.SentryConfig {
	t.Helper()
	for _, name := range []string{"DATABASE_URL", "MAILJET_HOST", "PORT", "SENTRY_WEB_WORKERS"} {
		if old, ok := os.LookupEnv(name); ok {
			require.NoError(t, os.Unsetenv(name))
			t.Cleanup(func() { _ = os.Setenv(name, old) })
		}
	}
	t.Setenv("SENTRY_CONF", t.TempDir())
	t.Setenv("REDIS_URL", "redis://:hunter2@redis:6379")
	t.Setenv("SECRET_KEY", "very-secret-key")
	t.Setenv("SENTRY_URL_PREFIX", "https://sentry.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func newTestServer(t *testing.T, checker *health.Checker, upstream *url.URL) *Server {
	t.Helper()
	if checker == nil {
		checker = health.NewChecker()
	}
	return NewServer(loadConfig(t), checker, upstream)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func secureRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	return req
}

func TestSecurityHeaders(t *testing.T) {
	t.Run("redirects plain HTTP to HTTPS", func(t *testing.T) {
		s := newTestServer(t, nil, nil)

		w := serve(s, httptest.NewRequest("GET", "http://sentry.example.com/organizations/?x=1", nil))

		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "https://sentry.example.com/organizations/?x=1", w.Header().Get("Location"))
	})

	t.Run("secure requests get every header", func(t *testing.T) {
		s := newTestServer(t, nil, nil)

		w := serve(s, secureRequest("GET", "/_status/"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	})

	t.Run("health endpoint is not redirected", func(t *testing.T) {
		s := newTestServer(t, nil, nil)

		w := serve(s, httptest.NewRequest("GET", "/_health/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	})

	t.Run("proxy header name", func(t *testing.T) {
		name, value := proxySSLHeader([2]string{"HTTP_X_FORWARDED_PROTO", "https"})
		assert.Equal(t, "X-Forwarded-Proto", name)
		assert.Equal(t, "https", value)
	})
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		checker := health.NewChecker()
		checker.Register("database", health.CheckFunc(func(context.Context) error { return nil }))
		s := newTestServer(t, checker, nil)

		w := serve(s, secureRequest("GET", "/_health/"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		var report health.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, health.StatusOK, report.Status)
		require.Len(t, report.Checks, 1)
		assert.Equal(t, "database", report.Checks[0].Name)
	})

	t.Run("unhealthy", func(t *testing.T) {
		checker := health.NewChecker()
		checker.Register("redis", health.CheckFunc(func(context.Context) error { return errors.New("dial tcp: refused") }))
		s := newTestServer(t, checker, nil)

		w := serve(s, secureRequest("GET", "/_health/"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "dial tcp: refused")

		var report health.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		require.Len(t, report.Checks, 1)
		assert.Equal(t, "redis", report.Checks[0].Name)
		assert.Equal(t, health.StatusError, report.Checks[0].Status)
	})
}

func TestStatusEndpoint(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := serve(s, secureRequest("GET", "/_status/"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "Your Sentry install is running!")
	assert.Contains(t, body, "https://sentry.example.com")
	assert.Contains(t, body, "sentry.cache.redis.RedisCache")
	assert.Contains(t, body, "<table>")
	assert.NotContains(t, body, "very-secret-key")
	assert.NotContains(t, body, "hunter2")
}

func TestProxy(t *testing.T) {
	var got *http.Request
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("X-Upstream", "sentry")
		_, _ = w.Write([]byte("hello from sentry"))
	}))
	t.Cleanup(upstream.Close)

	target, err := url.Parse(upstream.URL)
	require.NoError(t, err)
	s := newTestServer(t, nil, target)

	req := secureRequest("GET", "http://sentry.example.com/api/0/projects/")
	w := serve(s, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello from sentry", w.Body.String())
	assert.Equal(t, "sentry", w.Header().Get("X-Upstream"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.NotNil(t, got)
	assert.Equal(t, "/api/0/projects/", got.URL.Path)
	assert.Equal(t, "https", got.Header.Get("X-Forwarded-Proto"))
	assert.Equal(t, "sentry.example.com", got.Host)
}

func TestProxyUpstreamDown(t *testing.T) {
	target, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)
	s := newTestServer(t, nil, target)

	w := serve(s, secureRequest("GET", "/"))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAddr(t *testing.T) {
	cfg := loadConfig(t)
	assert.Equal(t, "0.0.0.0:3000", Addr(cfg))

	t.Setenv("PORT", "9000")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", Addr(cfg))
}
