// Package guard decides whether a protected view may run, based on the
// session and on whether the persisted stores have been read yet.
package guard

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Hydrator restores in-memory state from durable storage
type Hydrator interface {
	Hydrate(ctx context.Context) error
}

// HydratorFunc adapts a function to Hydrator
type HydratorFunc func(ctx context.Context) error

func (f HydratorFunc) Hydrate(ctx context.Context) error { return f(ctx) }

// Gate opens exactly once, after every hydrator has returned. It never
// closes again.
type Gate struct {
	log     zerolog.Logger
	done    chan struct{}
	start   sync.Once
	openOne sync.Once
}

func NewGate(log zerolog.Logger) *Gate {
	return &Gate{
		log:  log.With().Str("component", "hydration").Logger(),
		done: make(chan struct{}),
	}
}

// Start runs the hydrators in the background. Later calls are ignored.
// Hydrator errors are logged; the gate opens regardless so that a broken
// store reads as "logged out" rather than hanging.
func (g *Gate) Start(ctx context.Context, hydrators ...Hydrator) {
	g.start.Do(func() {
		go func() {
			defer g.open()
			for _, h := range hydrators {
				if err := h.Hydrate(ctx); err != nil {
					g.log.Warn().Err(err).Msg("Hydration step failed")
				}
			}
		}()
	})
}

func (g *Gate) open() {
	g.openOne.Do(func() {
		close(g.done)
		g.log.Debug().Msg("Hydrated")
	})
}

// Done is closed once hydration completes
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// Hydrated reports whether hydration has completed, without blocking
func (g *Gate) Hydrated() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// Wait blocks until hydration completes or ctx ends
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
