// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup applies SENTRY_LOG_LEVEL and SENTRY_LOG_FORMAT to the standard logger.
func Setup() error {
	return Configure(os.Stderr, os.Getenv("SENTRY_LOG_LEVEL"), os.Getenv("SENTRY_LOG_FORMAT"))
}

// Configure sets the output, level and formatter of the standard logger.
// An empty level means info; an empty format means text.
func Configure(out io.Writer, level, format string) error {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid SENTRY_LOG_LEVEL: %w", err)
		}
		lvl = parsed
	}

	switch strings.ToLower(format) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("invalid SENTRY_LOG_FORMAT %q (text or json)", format)
	}

	log.SetOutput(out)
	log.SetLevel(lvl)
	return nil
}
