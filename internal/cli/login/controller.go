// Package login runs the credential flows: sign in, register with automatic
// sign in, and sign out.
package login

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/networth-tracker/networth/internal/cli/client"
	"github.com/networth-tracker/networth/internal/cli/nav"
	"github.com/networth-tracker/networth/internal/cli/session"
	"github.com/networth-tracker/networth/internal/models"
)

// User-facing fallbacks when the server gives no detail
const (
	LoginFailedMessage        = "Login failed. Please try again."
	RegistrationFailedMessage = "Registration failed. Please try again."
)

// API is the auth collaborator the controller drives
type API interface {
	Login(ctx context.Context, email, password string) (*models.TokenGrant, error)
	GetCurrentUser(ctx context.Context, token string) (*models.UserProfile, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Controller orchestrates the login sequence against one session store.
type Controller struct {
	api   API
	store *session.Store
	nav   nav.Navigator
	log   zerolog.Logger

	mu      sync.Mutex
	loading bool
	errMsg  string
}

func NewController(api API, store *session.Store, navigator nav.Navigator, log zerolog.Logger) *Controller {
	return &Controller{
		api:   api,
		store: store,
		nav:   navigator,
		log:   log.With().Str("component", "login").Logger(),
	}
}

// Loading reports whether a flow is in progress
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Error returns the message to display for the last failed flow
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

func (c *Controller) begin() {
	c.mu.Lock()
	c.errMsg = ""
	c.loading = true
	c.mu.Unlock()
}

func (c *Controller) end() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

func (c *Controller) fail(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

// Submit signs in. The token and profile are fetched first and committed to
// the store together; nothing is committed if either call fails or ctx ends
// before the commit.
func (c *Controller) Submit(ctx context.Context, email, password string) error {
	c.begin()
	defer c.end()

	if err := Validate(LoginForm{Email: email, Password: password}); err != nil {
		c.fail(err.Error())
		return err
	}

	if err := c.signIn(ctx, email, password); err != nil {
		c.fail(displayMessage(err, LoginFailedMessage))
		return err
	}
	return nil
}

// Register creates the account and then signs in with the same credentials.
func (c *Controller) Register(ctx context.Context, form RegisterForm) error {
	c.begin()
	defer c.end()

	if err := Validate(form); err != nil {
		c.fail(err.Error())
		return err
	}

	_, err := c.api.Register(ctx, models.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		c.log.Debug().Err(err).Msg("Registration failed")
		c.fail(displayMessage(err, RegistrationFailedMessage))
		return fmt.Errorf("register: %w", err)
	}

	if err := c.signIn(ctx, form.Email, form.Password); err != nil {
		c.fail(displayMessage(err, RegistrationFailedMessage))
		return err
	}
	return nil
}

func (c *Controller) signIn(ctx context.Context, email, password string) error {
	grant, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.log.Debug().Err(err).Msg("Login request failed")
		return fmt.Errorf("login: %w", err)
	}

	// The profile call is authenticated with the fresh token directly; the
	// store does not see the token until the profile is known.
	user, err := c.api.GetCurrentUser(ctx, grant.AccessToken)
	if err != nil {
		c.log.Debug().Err(err).Msg("Profile request failed")
		return fmt.Errorf("fetch current user: %w", err)
	}

	// The caller may have gone away while the requests were in flight.
	if err := ctx.Err(); err != nil {
		c.log.Debug().Err(err).Msg("Login abandoned before commit")
		return err
	}

	if err := c.store.SetAuthData(grant.AccessToken, grant.ExpiresIn, *user, session.WithRefreshToken(grant.RefreshToken)); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}

	c.log.Info().Str("user_id", user.ID).Msg("Signed in")
	c.nav.NavigateTo(nav.DashboardPath)
	return nil
}

// Logout revokes the refresh token on a best-effort basis, clears the
// session and navigates to the login view.
func (c *Controller) Logout(ctx context.Context) {
	st := c.store.Snapshot()
	if st.RefreshToken != "" {
		if err := c.api.Logout(ctx, st.RefreshToken); err != nil {
			c.log.Warn().Err(err).Msg("Server logout failed")
		}
	}

	c.store.ClearAuth()
	c.nav.NavigateTo(nav.LoginPath)
}

func displayMessage(err error, fallback string) string {
	if detail, ok := client.Detail(err); ok {
		return detail
	}
	return fallback
}
