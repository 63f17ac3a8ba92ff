package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/networth-tracker/networth/internal/cli/storage"
)

// ErrInvalidThemeName is returned by SetTheme for unknown palette names.
var ErrInvalidThemeName = errors.New("theme: invalid theme name")

// Store is the persisted theme preference. Only the name is stored.
type Store struct {
	storage storage.Storage
	log     zerolog.Logger

	mu      sync.RWMutex
	current Name
}

func NewStore(st storage.Storage, log zerolog.Logger) *Store {
	return &Store{
		storage: st,
		log:     log.With().Str("component", "theme").Logger(),
		current: Default,
	}
}

// Theme returns the selected palette name
func (s *Store) Theme() Name {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Palette returns the selected palette
func (s *Store) Palette() Palette {
	return Resolve(s.Theme())
}

// SetTheme selects and persists name. Unknown names leave the selection
// unchanged.
func (s *Store) SetTheme(name Name) error {
	if !Valid(name) {
		return fmt.Errorf("%w: %q", ErrInvalidThemeName, name)
	}

	s.mu.Lock()
	s.current = name
	s.mu.Unlock()

	if err := s.storage.Set(storage.ThemeKey, string(name)); err != nil {
		s.log.Warn().Err(err).Str("theme", string(name)).Msg("Failed to persist theme")
	}
	return nil
}

// Hydrate restores the stored theme. A stored value that is not a known
// palette is removed and the default kept.
func (s *Store) Hydrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored, err := s.storage.Get(storage.ThemeKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read persisted theme")
		return nil
	}

	name := Name(stored)
	if !Valid(name) {
		s.log.Warn().Str("theme", stored).Msg("Stored theme not found, using default theme")
		if err := s.storage.Remove(storage.ThemeKey); err != nil {
			s.log.Warn().Err(err).Msg("Failed to remove stale theme")
		}
		return nil
	}

	s.mu.Lock()
	s.current = name
	s.mu.Unlock()
	return nil
}
