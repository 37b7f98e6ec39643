// Package redis checks the Redis host every Redis-backed Sentry service
// shares.
//
// Clients are built from the parsed cluster descriptor rather than the raw
// REDIS_URL, so the database index the services see (always 0) is the one
// that gets checked.
package redis
