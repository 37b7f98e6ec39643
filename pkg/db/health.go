package db

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
)

// HealthStore provides health check operations using GORM
type HealthStore struct {
	db *gorm.DB
}

// NewHealthStore creates a new HealthStore
func NewHealthStore(db *gorm.DB) *HealthStore {
	return &HealthStore{db: db}
}

// CheckConnectivity verifies database connectivity
func (s *HealthStore) CheckConnectivity(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}

// LazyHealthStore opens its pool on the first check, so a server can start
// before its database is up. The pool is kept across failed checks and
// redials on the next one.
type LazyHealthStore struct {
	settings config.DatabaseSettings

	mu    sync.Mutex
	db    *gorm.DB
	store *HealthStore
}

// NewLazyHealthStore creates a LazyHealthStore for settings.
func NewLazyHealthStore(settings config.DatabaseSettings) *LazyHealthStore {
	return &LazyHealthStore{settings: settings}
}

// CheckConnectivity connects if needed and verifies database connectivity
func (s *LazyHealthStore) CheckConnectivity(ctx context.Context) error {
	s.mu.Lock()
	if s.store == nil {
		database, err := Connect(s.settings)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.db = database
		s.store = NewHealthStore(database)
	}
	store := s.store
	s.mu.Unlock()

	return store.CheckConnectivity(ctx)
}

// Close releases the connection if one was made.
func (s *LazyHealthStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := Close(s.db)
	s.db, s.store = nil, nil
	return err
}
