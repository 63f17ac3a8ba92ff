package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/networth-tracker/networth/internal/cli/storage"
	"github.com/networth-tracker/networth/internal/models"
)

var (
	// ErrIncompleteProfile rejects commits whose user is not a real profile.
	ErrIncompleteProfile = errors.New("session: user profile is incomplete")
	// ErrEmptyToken rejects commits without an access token.
	ErrEmptyToken = errors.New("session: access token is empty")
	// ErrNoToken is returned by SetUser when there is no session to attach to.
	ErrNoToken = errors.New("session: no token to attach the user to")
)

// Store is the persisted session store. Mutations are serialized and each
// one is a single transition: consumers never observe a token without its
// user.
type Store struct {
	storage storage.Storage
	log     zerolog.Logger
	now     func() time.Time

	writeMu sync.Mutex // serializes mutate+persist
	mu      sync.RWMutex
	state   State

	listenerMu sync.Mutex
	listeners  map[int]func(State)
	nextID     int
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store persisting into st. Call Hydrate to load
// the previous session.
func NewStore(st storage.Storage, log zerolog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		storage:   st,
		log:       log.With().Str("component", "session").Logger(),
		now:       time.Now,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthOption adds optional data to SetAuthData
type AuthOption func(*State)

// WithRefreshToken stores the refresh token alongside the access token
func WithRefreshToken(token string) AuthOption {
	return func(s *State) {
		if token != "" {
			s.RefreshToken = token
		}
	}
}

// SetAuthData replaces token, expiry and user in one transition. The
// previous refresh token is kept unless a new one is given.
func (s *Store) SetAuthData(token string, expiresInSeconds int, user models.UserProfile, opts ...AuthOption) error {
	if token == "" {
		return ErrEmptyToken
	}
	if !user.Complete() {
		return ErrIncompleteProfile
	}

	now := s.now()
	lifetime := TokenLifetime(token, expiresInSeconds, now)

	s.mutate(func(cur State) (State, bool) {
		next := State{
			Token:          token,
			TokenIssuedAt:  now,
			TokenExpiresAt: now.Add(lifetime),
			RefreshToken:   cur.RefreshToken,
			User:           &user,
			Loading:        cur.Loading,
		}
		for _, opt := range opts {
			opt(&next)
		}
		return next, true
	})

	s.log.Debug().
		Str("user_id", user.ID).
		Dur("lifetime", lifetime).
		Msg("Session committed")
	return nil
}

// SetUser attaches a profile to the current token, keeping its expiry.
func (s *Store) SetUser(user models.UserProfile) error {
	if !user.Complete() {
		return ErrIncompleteProfile
	}

	var err error
	s.mutate(func(cur State) (State, bool) {
		if cur.Token == "" {
			err = ErrNoToken
			return cur, false
		}
		cur.User = &user
		return cur, true
	})
	return err
}

// ClearAuth resets the session. Clearing an empty session does nothing.
func (s *Store) ClearAuth() {
	s.mutate(func(cur State) (State, bool) {
		if cur.empty() && !cur.Loading {
			return cur, false
		}
		return State{}, true
	})
}

// SetLoading marks an in-flight session operation. It is not persisted.
func (s *Store) SetLoading(loading bool) {
	s.writeMu.Lock()
	s.mu.Lock()
	changed := s.state.Loading != loading
	s.state.Loading = loading
	st := s.state.clone()
	s.mu.Unlock()
	s.writeMu.Unlock()

	if changed {
		s.notify(st)
	}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Token returns the access token, if any
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token, s.state.Token != ""
}

// User returns the current profile, if any
func (s *Store) User() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return models.UserProfile{}, false
	}
	return *s.state.User, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated()
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

// Subscribe registers fn to run after every committed change. The returned
// func removes it.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

// Hydrate loads the persisted snapshot. A missing, unreadable or corrupt
// snapshot leaves the store empty; those failures are logged, not returned.
func (s *Store) Hydrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	restored, ok := s.read()
	if !ok {
		return nil
	}

	s.mutate(func(cur State) (State, bool) {
		restored.Loading = cur.Loading
		return restored, false
	})
	s.notify(s.Snapshot())

	s.log.Debug().
		Bool("authenticated", restored.IsAuthenticated()).
		Msg("Session hydrated")
	return nil
}

func (s *Store) read() (State, bool) {
	raw, err := s.storage.Get(storage.SessionKey)
	if errors.Is(err, storage.ErrNotFound) {
		return State{}, false
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read persisted session")
		return State{}, false
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.log.Warn().Err(err).Msg("Discarding corrupt session snapshot")
		s.discard()
		return State{}, false
	}
	if snap.Version != snapshotVersion {
		s.log.Warn().Int("version", snap.Version).Msg("Discarding session snapshot with unknown version")
		s.discard()
		return State{}, false
	}
	return fromSnapshot(snap), true
}

// discard removes an unusable snapshot so it is not read again.
func (s *Store) discard() {
	if err := s.storage.Remove(storage.SessionKey); err != nil {
		s.log.Warn().Err(err).Msg("Failed to remove session snapshot")
	}
}

// mutate applies fn under the write lock. When fn reports a change, the new
// state is persisted before the lock is released and listeners run after.
func (s *Store) mutate(fn func(State) (State, bool)) {
	s.writeMu.Lock()

	s.mu.Lock()
	next, changed := fn(s.state.clone())
	s.state = next
	st := s.state.clone()
	s.mu.Unlock()

	if changed {
		s.persist(st)
	}
	s.writeMu.Unlock()

	if changed {
		s.notify(st)
	}
}

func (s *Store) persist(st State) {
	data, err := json.Marshal(toSnapshot(st))
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode session snapshot")
		return
	}
	if err := s.storage.Set(storage.SessionKey, string(data)); err != nil {
		s.log.Warn().Err(fmt.Errorf("persist session: %w", err)).Msg("Session kept in memory only")
	}
}

func (s *Store) notify(st State) {
	s.listenerMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(st.clone())
	}
}

// Changes returns a channel that receives after each committed change. It
// coalesces bursts; the returned func stops delivery.
func (s *Store) Changes() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	cancel := s.Subscribe(func(State) {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	return ch, cancel
}
