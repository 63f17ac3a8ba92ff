package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	cliconfig "github.com/networth-tracker/networth/internal/cli/config"
	"github.com/networth-tracker/networth/internal/cli/client"
	"github.com/networth-tracker/networth/internal/cli/guard"
	"github.com/networth-tracker/networth/internal/cli/login"
	"github.com/networth-tracker/networth/internal/cli/nav"
	"github.com/networth-tracker/networth/internal/cli/render"
	"github.com/networth-tracker/networth/internal/cli/session"
	"github.com/networth-tracker/networth/internal/cli/storage"
	"github.com/networth-tracker/networth/internal/cli/theme"
	"github.com/networth-tracker/networth/internal/config"
	"github.com/networth-tracker/networth/internal/logger"
)

// ErrNotSignedIn is returned by protected commands when there is no session.
// The login view has already been requested when it is returned.
var ErrNotSignedIn = errors.New("not signed in")

// App holds the state shared by every command of one invocation.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Out    io.Writer
	ErrOut io.Writer

	API       *client.Client
	Session   *session.Store
	Theme     *theme.Store
	Gate      *guard.Gate
	Router    *nav.Router
	Refresher *session.Refresher
	Login     *login.Controller

	opts      options
	setupDone bool
}

type options struct {
	cfg          *config.Config
	log          *zerolog.Logger
	out          io.Writer
	errOut       io.Writer
	sessionStore storage.Storage
	prefStore    storage.Storage
	httpClient   *http.Client
}

// Option configures an App
type Option func(*options)

// WithConfig skips loading configuration from the environment
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger skips logger initialization
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = &log }
}

// WithOutput redirects command output
func WithOutput(out, errOut io.Writer) Option {
	return func(o *options) {
		o.out = out
		o.errOut = errOut
	}
}

// WithStorage replaces the session and preference storage backends
func WithStorage(sessionStore, prefStore storage.Storage) Option {
	return func(o *options) {
		o.sessionStore = sessionStore
		o.prefStore = prefStore
	}
}

// WithHTTPClient replaces the API client's HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func NewApp(opts ...Option) *App {
	a := &App{
		Log:    zerolog.Nop(),
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(&a.opts)
	}
	if a.opts.out != nil {
		a.Out = a.opts.out
	}
	if a.opts.errOut != nil {
		a.ErrOut = a.opts.errOut
	}
	return a
}

// Setup builds the stores and starts hydration. The session snapshot and
// the theme are read in the background; commands that depend on them wait
// on the gate.
func (a *App) Setup(ctx context.Context) error {
	if a.setupDone {
		return nil
	}

	cfg := a.opts.cfg
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	a.Config = cfg

	if a.opts.log != nil {
		a.Log = *a.opts.log
	} else {
		a.Log = logger.Init(cfg.Logging.Level, cfg.Logging.Format, a.ErrOut)
	}

	sessionStore, prefStore := a.opts.sessionStore, a.opts.prefStore
	if sessionStore == nil || prefStore == nil {
		file := storage.NewFileStorage(cfg.Session.StateDir)
		prefStore = file
		sessionStore = file
		if cfg.Session.Storage == cliconfig.StorageKeyring {
			sessionStore = storage.NewKeyringStorage(cfg.API.URL)
		}
	}

	a.API = client.New(cfg.API.URL, a.Log)
	if a.opts.httpClient != nil {
		a.API.SetHTTPClient(a.opts.httpClient)
	}

	a.Session = session.NewStore(sessionStore, a.Log)
	a.Theme = theme.NewStore(prefStore, a.Log)
	a.Refresher = session.NewRefresher(a.Session, a.API, a.Log)
	a.Router = nav.NewRouter(a.Log)
	a.Login = login.NewController(a.API, a.Session, a.Router, a.Log)

	a.Router.Handle(nav.LoginPath, a.showLogin)
	a.Router.Handle(nav.DashboardPath, a.showDashboard)

	a.Gate = guard.NewGate(a.Log)
	a.Gate.Start(ctx,
		guard.HydratorFunc(func(ctx context.Context) error {
			if err := a.Session.Hydrate(ctx); err != nil {
				return err
			}
			return session.Reconcile(ctx, a.Session, a.API, a.Log)
		}),
		a.Theme,
	)

	a.setupDone = true
	return nil
}

// Ready reports whether Setup has completed
func (a *App) Ready() bool {
	return a.setupDone
}

// renderer returns a renderer for the active theme. Call after the gate
// has opened so the stored theme is applied.
func (a *App) renderer() *render.Renderer {
	return render.New(a.Out, theme.NewStyles(a.Theme.Palette(), a.Out))
}

// protect runs view if the guard authorizes it. The guard waits for
// hydration and requests the login view when there is no session.
func (a *App) protect(ctx context.Context, view func(ctx context.Context) error) error {
	g := guard.New(a.Session, a.Gate, a.Router, a.Log)
	d, err := g.Await(ctx, a.Gate)
	if err != nil {
		return err
	}
	if d.View != guard.ViewProtected {
		return ErrNotSignedIn
	}
	return view(ctx)
}

// authed calls fn with the current access token. A rejected token is
// refreshed once and the call retried; if that fails the session is
// cleared and the login view requested.
func (a *App) authed(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	token, ok := a.Session.Token()
	if !ok {
		a.Router.NavigateTo(nav.LoginPath)
		return ErrNotSignedIn
	}

	err := fn(ctx, token)
	if !client.IsUnauthorized(err) {
		return err
	}

	a.Log.Debug().Msg("Access token rejected, refreshing")
	if rerr := a.Refresher.Recover(ctx, token); rerr != nil {
		a.Log.Warn().Err(rerr).Msg("Token refresh failed, signing out")
		a.Session.ClearAuth()
		a.Router.NavigateTo(nav.LoginPath)
		return ErrNotSignedIn
	}

	token, ok = a.Session.Token()
	if !ok {
		a.Router.NavigateTo(nav.LoginPath)
		return ErrNotSignedIn
	}
	return fn(ctx, token)
}

func (a *App) showLogin(ctx context.Context) error {
	fmt.Fprintln(a.ErrOut, "Run 'networth login' to sign in.")
	return nil
}

func (a *App) showDashboard(ctx context.Context) error {
	return a.protect(ctx, a.renderDashboard)
}

func (a *App) renderDashboard(ctx context.Context) error {
	return a.authed(ctx, func(ctx context.Context, token string) error {
		d, err := a.API.GetDashboard(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}

		var name string
		if u, ok := a.Session.User(); ok {
			name = u.DisplayName()
		}
		a.renderer().Dashboard(d, name)
		return nil
	})
}
