// Command sentryctl configures a Sentry deployment from its environment.
//
// Every setting Sentry needs is derived from environment variables, with an
// optional overlay file for values that rarely change. sentryctl renders the
// result as a sentry.conf.py settings module or a config.yml options file,
// checks that the database and Redis are reachable, and runs a front server
// for the Sentry web workers.
//
// # Quick Start
//
//	export REDIS_URL=redis://:password@redis:6379
//	export SECRET_KEY=$(openssl rand -hex 32)
//	export SENTRY_URL_PREFIX=https://sentry.example.com
//	export DATABASE_URL=postgres://sentry:password@db:5432/sentry
//
//	# Inspect what Sentry will see
//	sentryctl configuration show
//
//	# Write /etc/sentry/sentry.conf.py
//	sentryctl configuration render
//
//	# Check the database and Redis, then serve
//	sentryctl check
//	sentryctl server --upstream http://127.0.0.1:9000
//
// # Environment Variables
//
//   - REDIS_URL, SECRET_KEY, SENTRY_URL_PREFIX: required
//   - DATABASE_URL: database URL (default: the framework default)
//   - MAILJET_HOST, MAILJET_API_KEY, MAILJET_PRIVATE_KEY: SMTP relay
//   - PORT: web port (default: 3000)
//   - SENTRY_CONF: directory holding sentryctl.yml (default: /etc/sentry)
//   - SENTRY_UPSTREAM: web worker URL for the server command (default: http://127.0.0.1:9000)
//   - SENTRY_LOG_LEVEL: Log level (debug, info, warn, error)
//   - SENTRY_LOG_FORMAT: Log format (text, json)
package main
