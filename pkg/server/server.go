package server

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/health"
)

const (
	HealthPath = "/_health/"
	StatusPath = "/_status/"
)

type Server struct {
	Config   *config.SentryConfig
	Health   *health.Checker
	Upstream *url.URL
	Router   *mux.Router
	handler  http.Handler
	srv      *http.Server
}

// NewServer builds the front server for the Sentry web workers. It binds
// the configured web host and port, and forwards every request it does not
// serve itself to upstream.
func NewServer(cfg *config.SentryConfig, checker *health.Checker, upstream *url.URL) *Server {
	router := mux.NewRouter().UseEncodedPath()

	s := &Server{
		Config:   cfg,
		Health:   checker,
		Upstream: upstream,
		Router:   router,
	}

	router.HandleFunc(HealthPath, handleHealth(checker)).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc(StatusPath, handleStatus(cfg, checker)).Methods(http.MethodGet)
	if upstream != nil {
		router.PathPrefix("/").Handler(newProxy(upstream, cfg.Web.Options.SecureSchemeHeaders))
	}

	// Wrapped outside the router so unmatched paths get the headers too
	s.handler = SecurityHeaders(cfg.Security)(router)
	s.srv = &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, s.handler),
		Addr:    Addr(cfg),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return s
}

// Addr returns the host:port the server binds.
func Addr(cfg *config.SentryConfig) string {
	return net.JoinHostPort(cfg.Web.Host, strconv.Itoa(cfg.Web.Port))
}

// ServeHTTP serves a request without access logging.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
