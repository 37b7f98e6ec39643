// Package config provides the deployment configuration for a Sentry install.
//
// The configuration is read once at process start and then treated as
// immutable. Values come from three layers, later layers winning:
//
//   - Fixed defaults (backend selection, web options, security headers)
//   - An optional overlay file, $SENTRY_CONF/sentryctl.yml
//   - Environment variables
//
// # Required Environment Variables
//
//   - REDIS_URL: Redis used by the cache, queue broker and every Redis backend
//   - SECRET_KEY: system.secret-key
//   - SENTRY_URL_PREFIX: system.url-prefix
//
// A missing required variable is reported as a *MissingEnvError.
//
// # Optional Environment Variables
//
//   - DATABASE_URL: database connection URL
//   - PORT: web server port (default: 3000)
//   - SENTRY_ADMIN_EMAIL, SERVER_EMAIL, MAILGUN_API_KEY
//   - MAILJET_HOST, MAILJET_API_KEY, MAILJET_PRIVATE_KEY
//   - AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_STORAGE_BUCKET_NAME
//   - GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET
//   - SENTRY_<ROLE>_BACKEND: backend override, e.g. SENTRY_TSDB_BACKEND=dummytsdb
//   - SENTRY_WEB_WORKERS: number of web workers (default: 3)
package config
