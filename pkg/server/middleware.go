package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
)

// SecurityHeaders applies the security settings to every response and
// redirects plain HTTP requests to HTTPS. Requests count as secure when
// they arrived over TLS or carry the proxy SSL header. The health endpoint
// is never redirected so load balancers can probe it over HTTP.
func SecurityHeaders(s config.SecuritySettings) mux.MiddlewareFunc {
	proxyHeader, proxyValue := proxySSLHeader(s.ProxySSLHeader)

	hsts := ""
	if s.HSTSSeconds > 0 {
		hsts = "max-age=" + strconv.Itoa(s.HSTSSeconds)
		if s.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secure := r.TLS != nil || (proxyHeader != "" && r.Header.Get(proxyHeader) == proxyValue)

			if s.SSLRedirect && !secure && r.URL.Path != HealthPath {
				http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusMovedPermanently)
				return
			}

			h := w.Header()
			if hsts != "" && secure {
				h.Set("Strict-Transport-Security", hsts)
			}
			if s.FrameDeny {
				h.Set("X-Frame-Options", "DENY")
			}
			if s.ContentTypeNosniff {
				h.Set("X-Content-Type-Options", "nosniff")
			}
			if s.BrowserXSSFilter {
				h.Set("X-XSS-Protection", "1; mode=block")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// proxySSLHeader turns a WSGI header name such as HTTP_X_FORWARDED_PROTO
// into its HTTP form.
func proxySSLHeader(setting [2]string) (string, string) {
	name := strings.TrimPrefix(setting[0], "HTTP_")
	if name == "" {
		return "", ""
	}
	return http.CanonicalHeaderKey(strings.ReplaceAll(name, "_", "-")), setting[1]
}
