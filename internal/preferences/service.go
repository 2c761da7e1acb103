// Package preferences is the single mutation surface for the media processor
// settings. Every change is written through to the store before it returns.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stwalsh4118/pie/internal/logger"
	"github.com/stwalsh4118/pie/internal/models"
)

// Store persists the settings record
type Store interface {
	Load(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
	Clear(ctx context.Context) error
	Close() error
}

// Prober decides whether a path is a runnable tool of the given kind
type Prober interface {
	Probe(ctx context.Context, path string, kind models.ToolKind) models.Validity
}

// errRecordUnread blocks saves while the stored record has never been read,
// so defaults never overwrite it
var errRecordUnread = errors.New("stored settings have not been read")

// PathSetResult reports the outcome of a tool path change.
// Accepted is false when the probe rejected the path; nothing was stored then.
type PathSetResult struct {
	Kind     models.ToolKind `json:"kind"`
	Path     string          `json:"path"`
	Accepted bool            `json:"accepted"`
	Validity models.Validity `json:"validity"`
}

// ToolPathOutcome is delivered by SetToolPathAsync
type ToolPathOutcome struct {
	Result PathSetResult
	Err    error
}

// Service owns the in-memory settings and keeps them in step with the store
type Service struct {
	store  Store
	prober Prober

	mu         sync.Mutex
	settings   *models.Settings
	loadFailed bool
	validity   map[models.ToolKind]models.Validity
	closed     bool

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewService creates a preferences service. Call Load before use;
// mutations load lazily if it was skipped.
func NewService(store Store, prober Prober) *Service {
	return &Service{
		store:    store,
		prober:   prober,
		validity: newValidityMap(),
	}
}

func newValidityMap() map[models.ToolKind]models.Validity {
	m := make(map[models.ToolKind]models.Validity, len(models.ToolKinds))
	for _, kind := range models.ToolKinds {
		m[kind] = models.ValidityUnknown
	}
	return m
}

// Load reads the settings from the store into memory and returns a copy.
// On a storage failure the service falls back to defaults and reports
// ErrStorageUnavailable alongside them.
func (s *Service) Load(ctx context.Context) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrShutdown
	}

	s.validity = newValidityMap()
	err := s.loadLocked(ctx)
	return s.settings.Clone(), err
}

// loadLocked replaces the in-memory record with the stored one. A failure
// keeps values that were already read; otherwise defaults stand in and
// loadFailed is set until a later read succeeds.
func (s *Service) loadLocked(ctx context.Context) error {
	loaded, err := s.store.Load(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to load settings, using defaults for this session")
		if s.settings == nil || s.loadFailed {
			if s.settings == nil {
				s.settings = models.DefaultSettings()
			}
			s.loadFailed = true
		}
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	s.settings = loaded
	s.loadFailed = false
	logger.Log.Info().
		Bool("persisted", !loaded.UpdatedAt.IsZero()).
		Msg("Settings loaded")
	return nil
}

// ensureLoadedLocked loads on first use and retries after a failed load.
// Changes made while the record was unread are replaced by the stored values.
func (s *Service) ensureLoadedLocked(ctx context.Context) {
	if s.settings == nil || s.loadFailed {
		_ = s.loadLocked(ctx)
	}
}

// persistLocked writes the full in-memory record to the store. It refuses
// while the stored record is unread.
func (s *Service) persistLocked(ctx context.Context) error {
	if s.loadFailed {
		logger.Log.Warn().Msg("Not saving settings over a record that could not be read")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, errRecordUnread)
	}
	if err := s.store.Save(ctx, s.settings); err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to persist settings; change kept in memory only")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// Settings returns a copy of the in-memory settings, or nil before Load
func (s *Service) Settings() *models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// SetField assigns value to the named field and persists the record.
// The in-memory value is updated even when persisting fails.
func (s *Service) SetField(ctx context.Context, name string, value any) error {
	field, ok := models.LookupField(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrShutdown
	}
	s.ensureLoadedLocked(ctx)

	if err := field.Set(s.settings, value); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("field", name).
			Interface("value", value).
			Msg("Rejected settings value")
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
	}

	if err := s.persistLocked(ctx); err != nil {
		return err
	}

	logger.Log.Info().
		Str("field", name).
		Interface("value", field.Get(s.settings)).
		Msg("Setting updated")
	return nil
}

// SetToolPath probes candidate and stores it only if the tool runs.
// The probe runs without holding the service lock, so other changes are not
// stalled. The validity recorded for kind is that of the last probe to finish.
// Cancelling ctx does not cut the probe short; only the validator timeout does.
func (s *Service) SetToolPath(ctx context.Context, kind models.ToolKind, candidate string) (PathSetResult, error) {
	result := PathSetResult{Kind: kind, Path: candidate, Validity: models.ValidityInvalid}
	if !kind.IsValid() {
		return result, fmt.Errorf("%w: %q", ErrUnknownToolKind, kind)
	}

	if s.isClosed() {
		return result, ErrShutdown
	}

	ctx = context.WithoutCancel(ctx)
	validity := s.prober.Probe(ctx, candidate, kind)
	result.Validity = validity

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return result, ErrShutdown
	}
	s.validity[kind] = validity

	if validity != models.ValidityValid {
		logger.Log.Warn().
			Str("tool", kind.String()).
			Str("path", candidate).
			Msg("Tool path rejected; keeping previous path")
		return result, nil
	}

	s.ensureLoadedLocked(ctx)
	s.settings.SetToolPath(kind, candidate)
	result.Accepted = true

	if err := s.persistLocked(ctx); err != nil {
		return result, err
	}

	logger.Log.Info().
		Str("tool", kind.String()).
		Str("path", candidate).
		Msg("Tool path updated")
	return result, nil
}

// SetToolPathAsync runs SetToolPath in a goroutine. The channel receives
// exactly one outcome and is then closed.
func (s *Service) SetToolPathAsync(ctx context.Context, kind models.ToolKind, candidate string) <-chan ToolPathOutcome {
	out := make(chan ToolPathOutcome, 1)
	go func() {
		defer close(out)
		result, err := s.SetToolPath(ctx, kind, candidate)
		out <- ToolPathOutcome{Result: result, Err: err}
	}()
	return out
}

// Validity returns the derived validity of the tool path for kind
func (s *Service) Validity(kind models.ToolKind) models.Validity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.validity[kind]; ok {
		return v
	}
	return models.ValidityUnknown
}

// Validities returns the validity of every tool kind
func (s *Service) Validities() map[models.ToolKind]models.Validity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[models.ToolKind]models.Validity, len(s.validity))
	for k, v := range s.validity {
		out[k] = v
	}
	return out
}

// RestoreDefaults deletes the stored record and reloads, which yields the
// compiled-in defaults. All previous values are lost.
func (s *Service) RestoreDefaults(ctx context.Context) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrShutdown
	}

	if err := s.store.Clear(ctx); err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to clear settings; keeping current values")
		s.ensureLoadedLocked(ctx)
		return s.settings.Clone(), fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	s.validity = newValidityMap()
	if err := s.loadLocked(ctx); err != nil {
		// The record is gone, so defaults are what the store holds
		s.settings = models.DefaultSettings()
		s.loadFailed = false
		return s.settings.Clone(), err
	}

	logger.Log.Info().Msg("Settings restored to defaults")
	return s.settings.Clone(), nil
}

// Shutdown closes the store. It is idempotent and returns the result of the
// first close on every call.
func (s *Service) Shutdown() error {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.closed = true
		s.shutdownErr = s.store.Close()
		if s.shutdownErr != nil {
			logger.Log.Error().Err(s.shutdownErr).Msg("Failed to close settings store")
			return
		}
		logger.Log.Info().Msg("Preferences service shut down")
	})
	return s.shutdownErr
}

func (s *Service) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
