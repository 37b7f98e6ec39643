package server

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	log "github.com/sirupsen/logrus"
)

// newProxy forwards requests to the Sentry web workers. The secure scheme
// headers the workers trust are passed on untouched.
func newProxy(upstream *url.URL, secureSchemeHeaders map[string]string) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
			pr.Out.Host = pr.In.Host
			for name := range secureSchemeHeaders {
				if v := pr.In.Header.Get(name); v != "" {
					pr.Out.Header.Set(name, v)
				}
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.WithFields(log.Fields{"upstream": upstream.String(), "path": r.URL.Path, "err": err}).Error("Upstream request failed")
			w.WriteHeader(http.StatusBadGateway)
		},
	}
}
