package guard

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networth-tracker/networth/internal/cli/session"
	"github.com/networth-tracker/networth/internal/cli/storage"
	"github.com/networth-tracker/networth/internal/models"
)

type fakeSession struct {
	authenticated bool
	loading       bool
}

func (f *fakeSession) IsAuthenticated() bool { return f.authenticated }
func (f *fakeSession) Loading() bool         { return f.loading }

type fakeHydration struct{ hydrated bool }

func (f *fakeHydration) Hydrated() bool { return f.hydrated }

type recordingNavigator struct{ paths []string }

func (r *recordingNavigator) NavigateTo(path string) { r.paths = append(r.paths, path) }

func TestGuard_DecisionTable(t *testing.T) {
	for _, hydrated := range []bool{false, true} {
		for _, authenticated := range []bool{false, true} {
			for _, loading := range []bool{false, true} {
				name := fmt.Sprintf("hydrated=%v/auth=%v/loading=%v", hydrated, authenticated, loading)
				t.Run(name, func(t *testing.T) {
					nav := &recordingNavigator{}
					g := New(
						&fakeSession{authenticated: authenticated, loading: loading},
						&fakeHydration{hydrated: hydrated},
						nav,
						zerolog.Nop(),
					)

					d := g.Evaluate()

					wantProtected := hydrated && authenticated && !loading
					assert.Equal(t, wantProtected, d.View == ViewProtected)

					if !hydrated {
						assert.Empty(t, nav.paths, "no navigation before hydration")
					}

					switch {
					case !hydrated || loading:
						assert.Equal(t, Decision{State: Hydrating, View: ViewLoading}, d)
						assert.Empty(t, nav.paths)
					case authenticated:
						assert.Equal(t, Decision{State: Authorized, View: ViewProtected}, d)
						assert.Empty(t, nav.paths)
					default:
						assert.Equal(t, Decision{State: Redirecting, View: ViewEmpty}, d)
						assert.Equal(t, []string{LoginPath}, nav.paths)
					}
				})
			}
		}
	}
}

func TestGuard_RedirectFiresOncePerMount(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(&fakeSession{}, &fakeHydration{hydrated: true}, nav, zerolog.Nop())

	assert.Equal(t, Redirecting, g.Evaluate().State)
	for i := 0; i < 5; i++ {
		d := g.Evaluate()
		assert.Equal(t, Decision{State: Blocked, View: ViewEmpty}, d)
	}
	assert.Equal(t, []string{LoginPath}, nav.paths)
}

func TestGuard_ReentersRedirectAfterLogout(t *testing.T) {
	nav := &recordingNavigator{}
	sess := &fakeSession{authenticated: true}
	g := New(sess, &fakeHydration{hydrated: true}, nav, zerolog.Nop())

	assert.Equal(t, Authorized, g.Evaluate().State)
	assert.Equal(t, Authorized, g.Evaluate().State)

	sess.authenticated = false
	assert.Equal(t, Redirecting, g.Evaluate().State)
	assert.Equal(t, Blocked, g.Evaluate().State)

	sess.authenticated = true
	assert.Equal(t, Authorized, g.Evaluate().State)

	sess.authenticated = false
	assert.Equal(t, Redirecting, g.Evaluate().State)
	assert.Equal(t, []string{LoginPath, LoginPath}, nav.paths)
}

func TestGuard_LoadingHoldsBackRedirect(t *testing.T) {
	nav := &recordingNavigator{}
	sess := &fakeSession{loading: true}
	g := New(sess, &fakeHydration{hydrated: true}, nav, zerolog.Nop())

	assert.Equal(t, Hydrating, g.Evaluate().State)
	assert.Empty(t, nav.paths)

	sess.loading = false
	assert.Equal(t, Redirecting, g.Evaluate().State)
}

func TestGuard_OverridesTakePrecedence(t *testing.T) {
	nav := &recordingNavigator{}
	sess := &fakeSession{authenticated: false, loading: true}

	g := New(sess, &fakeHydration{hydrated: true}, nav, zerolog.Nop(),
		WithAuthenticated(true), WithLoading(false))
	assert.Equal(t, Authorized, g.Evaluate().State)

	g = New(&fakeSession{authenticated: true}, &fakeHydration{hydrated: true}, nav, zerolog.Nop(),
		WithAuthenticated(false))
	assert.Equal(t, Redirecting, g.Evaluate().State)
}

func TestGuard_NilCollaborators(t *testing.T) {
	g := New(nil, nil, nil, zerolog.Nop())
	assert.Equal(t, Hydrating, g.Evaluate().State)
}

func TestGate_OpensOnceAfterHydrators(t *testing.T) {
	gate := NewGate(zerolog.Nop())
	assert.False(t, gate.Hydrated())

	release := make(chan struct{})
	var calls atomic.Int32
	slow := HydratorFunc(func(ctx context.Context) error {
		<-release
		calls.Add(1)
		return nil
	})
	failing := HydratorFunc(func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("disk on fire")
	})

	gate.Start(context.Background(), slow, failing)
	gate.Start(context.Background(), slow) // ignored

	assert.False(t, gate.Hydrated())
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, gate.Wait(ctx))
	assert.True(t, gate.Hydrated())
	assert.Equal(t, int32(2), calls.Load())

	// Stays open.
	require.NoError(t, gate.Wait(context.Background()))
	assert.True(t, gate.Hydrated())
}

func TestGate_WaitHonoursContext(t *testing.T) {
	gate := NewGate(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, gate.Wait(ctx), context.Canceled)
}

func TestGuard_AwaitWithSessionStore(t *testing.T) {
	mem := storage.NewMemoryStorage()
	seed := session.NewStore(mem, zerolog.Nop())
	require.NoError(t, seed.SetAuthData("jwt", 900, models.UserProfile{ID: "u1", Username: "ann"}))

	store := session.NewStore(mem, zerolog.Nop())
	gate := NewGate(zerolog.Nop())
	nav := &recordingNavigator{}
	g := New(store, gate, nav, zerolog.Nop())

	// Before hydration the stored session is invisible and nothing navigates.
	assert.Equal(t, Hydrating, g.Evaluate().State)

	gate.Start(context.Background(), store)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d, err := g.Await(ctx, gate)
	require.NoError(t, err)
	assert.Equal(t, Authorized, d.State)
	assert.Empty(t, nav.paths)
}

func TestGuard_AwaitWaitsForLoadingToSettle(t *testing.T) {
	store := session.NewStore(storage.NewMemoryStorage(), zerolog.Nop())
	store.SetLoading(true)

	gate := NewGate(zerolog.Nop())
	gate.Start(context.Background())

	nav := &recordingNavigator{}
	g := New(store, gate, nav, zerolog.Nop())

	go func() {
		time.Sleep(10 * time.Millisecond)
		store.SetLoading(false)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d, err := g.Await(ctx, gate)
	require.NoError(t, err)
	assert.Equal(t, Redirecting, d.State)
	assert.Equal(t, []string{LoginPath}, nav.paths)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "hydrating", Hydrating.String())
	assert.Equal(t, "redirecting", Redirecting.String())
	assert.Equal(t, "authorized", Authorized.String())
	assert.Equal(t, "blocked", Blocked.String())
}
