package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
)

// Connect opens a connection pool for the database described by
// DATABASE_URL. It does not dial; the first query made through the pool
// does. Only postgres engines can be reached from here; other engines are
// accepted by the configuration but never checked.
func Connect(settings config.DatabaseSettings) (*gorm.DB, error) {
	if !settings.IsSet() {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	dsn, err := settings.DSN()
	if err != nil {
		return nil, err
	}

	// Default to silent logging unless SENTRY_LOG_LEVEL=debug is set
	logMode := logger.Silent
	if os.Getenv("SENTRY_LOG_LEVEL") == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger:               logger.Default.LogMode(logMode),
			DisableAutomaticPing: true,
		},
	)
	if err != nil {
		if db != nil {
			_ = Close(db)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if sqlDB == nil {
		return nil
	}
	return sqlDB.Close()
}
