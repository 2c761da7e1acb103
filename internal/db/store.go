package db

import (
	"context"
	"sync"

	"github.com/stwalsh4118/pie/internal/models"
)

// Store is the durable settings store. It owns the database connection
// and releases it on Close.
type Store struct {
	settings *SettingsRepository
	db       *DB

	mu     sync.RWMutex
	closed bool
}

// NewStore creates a settings store backed by database
func NewStore(database *DB) *Store {
	return &Store{
		settings: NewSettingsRepository(database),
		db:       database,
	}
}

// Load returns the persisted settings or defaults
func (s *Store) Load(ctx context.Context) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	return s.settings.Load(ctx)
}

// Save persists the full settings record
func (s *Store) Save(ctx context.Context, settings *models.Settings) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.settings.Save(ctx, settings)
}

// Clear deletes the persisted record
func (s *Store) Clear(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.settings.Clear(ctx)
}

// Health pings the underlying database
func (s *Store) Health(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Health(ctx)
}

// Close releases the database connection. Calling it again is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
