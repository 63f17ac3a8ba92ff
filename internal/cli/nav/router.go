// Package nav maps route paths to command views. Navigation is
// fire-and-forget: NavigateTo only records the destination and Flush shows
// it once the current flow has finished.
package nav

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Route paths
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Navigator requests a route change without waiting for it
type Navigator interface {
	NavigateTo(path string)
}

// View renders one route
type View func(ctx context.Context) error

// Router records navigations and dispatches them to registered views.
type Router struct {
	log zerolog.Logger

	mu      sync.Mutex
	views   map[string]View
	pending string
	history []string
}

func NewRouter(log zerolog.Logger) *Router {
	return &Router{
		log:   log.With().Str("component", "router").Logger(),
		views: make(map[string]View),
	}
}

// Handle registers the view for path, replacing any previous one
func (r *Router) Handle(path string, view View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[path] = view
}

// NavigateTo records path as the next destination. The latest call wins.
func (r *Router) NavigateTo(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = path
	r.history = append(r.history, path)
	r.log.Debug().Str("path", path).Msg("Navigation requested")
}

// Pending returns the destination that Flush would show
func (r *Router) Pending() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending, r.pending != ""
}

// History lists every requested path in order
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// Flush shows the pending destination, if any. Paths without a view are
// logged and dropped.
func (r *Router) Flush(ctx context.Context) error {
	r.mu.Lock()
	path := r.pending
	r.pending = ""
	view, ok := r.views[path]
	r.mu.Unlock()

	if path == "" {
		return nil
	}
	if !ok {
		r.log.Warn().Str("path", path).Msg("No view registered for path")
		return nil
	}
	if err := view(ctx); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
