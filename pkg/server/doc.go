// Package server provides the HTTP front server for Sentry web workers.
//
// It applies the security headers to every response, redirects plain HTTP
// to HTTPS, and forwards application traffic to the workers. Two routes are
// served locally:
//
//   - /_health/ - JSON report of database and Redis reachability
//   - /_status/ - HTML summary of the deployment, without secret values
//
// # Server Setup
//
//	checker := health.NewChecker()
//	srv := server.NewServer(cfg, checker, upstream)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
package server
