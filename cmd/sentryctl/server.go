package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/server"
)

func defaultUpstream() string {
	if u := os.Getenv("SENTRY_UPSTREAM"); u != "" {
		return u
	}
	return "http://127.0.0.1:9000"
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the front server for the Sentry web workers",
	Long: `Run the front server for the Sentry web workers.

The server binds the configured web host and PORT, applies the security
headers, redirects plain HTTP to HTTPS and forwards requests to the
workers at --upstream. It serves /_health/ and /_status/ itself.

Example:
  sentryctl server
  sentryctl server --upstream http://127.0.0.1:9000`,
	Run: func(cmd *cobra.Command, args []string) {
		upstream, _ := cmd.Flags().GetString("upstream")

		if err := runServer(upstream); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to run server: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringP("upstream", "u", defaultUpstream(), "Sentry web worker URL")
}

func runServer(upstreamURL string) error {
	upstream, err := url.Parse(upstreamURL)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		return fmt.Errorf("invalid upstream %q", upstreamURL)
	}

	cfg, err := config.Get()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	for _, warning := range cfg.Warnings() {
		log.Warn(warning)
	}

	checker, closeAll, err := newChecker(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	s := server.NewServer(cfg, checker, upstream)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": server.Addr(cfg), "upstream": upstream.String()}).Info("Running server")
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}
