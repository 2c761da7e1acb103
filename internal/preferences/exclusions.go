package preferences

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/stwalsh4118/pie/internal/logger"
)

// SelectionState tells the caller whether removal is allowed for the current selection
type SelectionState struct {
	AllowRemove bool `json:"allow_remove"`
}

// ExclusionSelection derives the selection state for count selected entries.
// Removal requires a non-empty selection.
func ExclusionSelection(count int) SelectionState {
	return SelectionState{AllowRemove: count > 0}
}

// ExclusionSelection is the method form of the package function
func (s *Service) ExclusionSelection(count int) SelectionState {
	return ExclusionSelection(count)
}

// Exclusions returns the decoded exclusion list in stored order
func (s *Service) Exclusions() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings == nil {
		return []string{}, nil
	}

	dirs, err := s.settings.ExcludedDirs()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptExclusions, err)
	}
	return dirs, nil
}

// AddExclusion appends path to the exclusion list and persists it.
// Paths are compared exactly, without normalisation.
func (s *Service) AddExclusion(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrShutdown
	}
	s.ensureLoadedLocked(ctx)

	dirs, err := s.excludedDirsLocked()
	if err != nil {
		return err
	}

	if slices.Contains(dirs, path) {
		logger.Log.Warn().Str("path", path).Msg("Exclusion already present")
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, path)
	}

	if err := s.settings.SetExcludedDirs(append(dirs, path)); err != nil {
		return fmt.Errorf("failed to encode exclusions: %w", err)
	}

	if err := s.persistLocked(ctx); err != nil {
		return err
	}

	logger.Log.Info().
		Str("path", path).
		Int("count", len(dirs)+1).
		Msg("Exclusion added")
	return nil
}

// RemoveExclusion removes path from the exclusion list and persists it
func (s *Service) RemoveExclusion(ctx context.Context, path string) error {
	return s.RemoveExclusions(ctx, []string{path})
}

// RemoveExclusions removes every path in the selection with a single save.
// If any path is missing nothing is removed.
func (s *Service) RemoveExclusions(ctx context.Context, paths []string) error {
	if !ExclusionSelection(len(paths)).AllowRemove {
		return fmt.Errorf("%w: empty selection", ErrEntryNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrShutdown
	}
	s.ensureLoadedLocked(ctx)

	dirs, err := s.excludedDirsLocked()
	if err != nil {
		return err
	}

	for _, p := range paths {
		if !slices.Contains(dirs, p) {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, p)
		}
	}

	remaining := slices.DeleteFunc(dirs, func(d string) bool {
		return slices.Contains(paths, d)
	})
	if err := s.settings.SetExcludedDirs(remaining); err != nil {
		return fmt.Errorf("failed to encode exclusions: %w", err)
	}

	if err := s.persistLocked(ctx); err != nil {
		return err
	}

	logger.Log.Info().
		Strs("paths", paths).
		Int("count", len(remaining)).
		Msg("Exclusions removed")
	return nil
}

func (s *Service) excludedDirsLocked() ([]string, error) {
	dirs, err := s.settings.ExcludedDirs()
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("raw", s.settings.DirsToExclude).
			Msg("Stored exclusion list is not a JSON string array")
		return nil, fmt.Errorf("%w: %v", ErrCorruptExclusions, err)
	}
	return dirs, nil
}
