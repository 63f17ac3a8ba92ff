package guard

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/networth-tracker/networth/internal/cli/nav"
)

// LoginPath is where unauthenticated users are sent
const LoginPath = nav.LoginPath

// State of the route guard
type State int

const (
	Hydrating State = iota
	Redirecting
	Authorized
	Blocked
)

func (s State) String() string {
	switch s {
	case Hydrating:
		return "hydrating"
	case Redirecting:
		return "redirecting"
	case Authorized:
		return "authorized"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// View is what the caller should show for a decision
type View int

const (
	ViewLoading View = iota
	ViewEmpty
	ViewProtected
)

// Decision is the outcome of one evaluation
type Decision struct {
	State State
	View  View
}

// Session is the part of the session store the guard reads
type Session interface {
	IsAuthenticated() bool
	Loading() bool
}

// Navigator performs fire-and-forget navigation
type Navigator interface {
	NavigateTo(path string)
}

// HydrationStatus reports whether the persisted stores have been read
type HydrationStatus interface {
	Hydrated() bool
}

// Option overrides a store-derived input
type Option func(*Guard)

// WithAuthenticated overrides the session's authentication state
func WithAuthenticated(v bool) Option {
	return func(g *Guard) { g.authOverride = &v }
}

// WithLoading overrides the session's loading state
func WithLoading(v bool) Option {
	return func(g *Guard) { g.loadingOverride = &v }
}

type latchKey struct {
	hydrated      bool
	authenticated bool
}

// Guard is a per-mount route guard. The navigation to the login path fires
// at most once for each (hydrated, authenticated) key it enters.
type Guard struct {
	session   Session
	hydration HydrationStatus
	nav       Navigator
	log       zerolog.Logger

	authOverride    *bool
	loadingOverride *bool

	mu    sync.Mutex
	fired *latchKey
}

func New(session Session, hydration HydrationStatus, nav Navigator, log zerolog.Logger, opts ...Option) *Guard {
	g := &Guard{
		session:   session,
		hydration: hydration,
		nav:       nav,
		log:       log.With().Str("component", "guard").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) authenticated() bool {
	if g.authOverride != nil {
		return *g.authOverride
	}
	return g.session != nil && g.session.IsAuthenticated()
}

func (g *Guard) loading() bool {
	if g.loadingOverride != nil {
		return *g.loadingOverride
	}
	return g.session != nil && g.session.Loading()
}

// Evaluate decides what to show now. It never blocks and never fails.
func (g *Guard) Evaluate() Decision {
	hydrated := g.hydration != nil && g.hydration.Hydrated()
	loading := g.loading()
	authenticated := g.authenticated()

	g.mu.Lock()
	defer g.mu.Unlock()

	if !hydrated || loading {
		return Decision{State: Hydrating, View: ViewLoading}
	}

	if authenticated {
		g.fired = nil
		return Decision{State: Authorized, View: ViewProtected}
	}

	key := latchKey{hydrated: hydrated, authenticated: authenticated}
	if g.fired != nil && *g.fired == key {
		return Decision{State: Blocked, View: ViewEmpty}
	}
	g.fired = &key

	g.log.Debug().Msg("Not authenticated, redirecting to login")
	if g.nav != nil {
		g.nav.NavigateTo(LoginPath)
	}
	return Decision{State: Redirecting, View: ViewEmpty}
}

// notifier is implemented by sessions that can signal changes
type notifier interface {
	Changes() (<-chan struct{}, func())
}

// Await waits for hydration and returns the first settled decision. While
// the session reports loading it waits for the session to change, until
// ctx ends.
func (g *Guard) Await(ctx context.Context, gate *Gate) (Decision, error) {
	if err := gate.Wait(ctx); err != nil {
		return Decision{State: Hydrating, View: ViewLoading}, err
	}

	n, ok := g.session.(notifier)
	if !ok || g.loadingOverride != nil {
		return g.Evaluate(), nil
	}

	changed, cancel := n.Changes()
	defer cancel()

	for {
		d := g.Evaluate()
		if d.State != Hydrating {
			return d, nil
		}
		select {
		case <-ctx.Done():
			return d, ctx.Err()
		case <-changed:
		}
	}
}
