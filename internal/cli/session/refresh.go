package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/networth-tracker/networth/internal/models"
)

// ErrNotAuthenticated is returned when an operation needs a session.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// TokenRefresher exchanges a refresh token for a new access token
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*models.TokenGrant, error)
}

// ProfileFetcher loads the profile behind an access token
type ProfileFetcher interface {
	GetCurrentUser(ctx context.Context, token string) (*models.UserProfile, error)
}

// Refresher keeps the access token fresh.
type Refresher struct {
	store *Store
	api   TokenRefresher
	log   zerolog.Logger

	mu sync.Mutex // one exchange at a time
}

func NewRefresher(store *Store, api TokenRefresher, log zerolog.Logger) *Refresher {
	return &Refresher{
		store: store,
		api:   api,
		log:   log.With().Str("component", "refresher").Logger(),
	}
}

// CheckAndRefresh refreshes the token when ShouldRefreshToken says so. A
// failed refresh keeps the current session; the next API call that gets a
// 401 decides whether to log out.
func (r *Refresher) CheckAndRefresh(ctx context.Context) error {
	if !r.store.IsAuthenticated() || !r.store.ShouldRefreshToken() {
		return nil
	}
	if err := r.Refresh(ctx); err != nil {
		r.log.Warn().Err(err).Msg("Background refresh failed")
		return err
	}
	r.log.Debug().Msg("Token refreshed in background")
	return nil
}

// Refresh unconditionally exchanges the refresh token, keeping the user.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refresh(ctx)
}

// Recover handles an access token the server rejected. Callers that saw the
// same token share one exchange: once it has been replaced, Recover returns
// without refreshing again.
func (r *Refresher) Recover(ctx context.Context, rejected string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token, ok := r.store.Token(); ok && token != rejected {
		return nil
	}
	return r.refresh(ctx)
}

func (r *Refresher) refresh(ctx context.Context) error {
	st := r.store.Snapshot()
	if !st.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	grant, err := r.api.Refresh(ctx, st.RefreshToken)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	if grant.AccessToken == "" {
		return fmt.Errorf("refresh token: %w", ErrEmptyToken)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// The session may have been cleared while the request was in flight.
	user, ok := r.store.User()
	if !ok {
		return ErrNotAuthenticated
	}
	return r.store.SetAuthData(grant.AccessToken, grant.ExpiresIn, user, WithRefreshToken(grant.RefreshToken))
}

// Run calls CheckAndRefresh immediately and then every interval until ctx
// ends.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	_ = r.CheckAndRefresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.CheckAndRefresh(ctx)
		}
	}
}

// Reconcile completes a hydrated session that has a token but no user by
// fetching the profile. If the fetch fails the token is dropped.
func Reconcile(ctx context.Context, store *Store, api ProfileFetcher, log zerolog.Logger) error {
	st := store.Snapshot()
	if st.Token == "" || st.User != nil {
		return nil
	}

	log.Debug().Msg("Found token but no user, fetching user data")
	store.SetLoading(true)
	defer store.SetLoading(false)

	user, err := api.GetCurrentUser(ctx, st.Token)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch user data, clearing session")
		store.ClearAuth()
		return fmt.Errorf("fetch current user: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.SetUser(*user); err != nil {
		store.ClearAuth()
		return err
	}
	return nil
}
