package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/networth-tracker/networth/internal/cli/guard"
)

const refreshCheckInterval = time.Minute

// NewDashboardCmd creates the dashboard command
func NewDashboardCmd(app *App) *cobra.Command {
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show your net worth summary",
		Long: `Show the net worth total, the balance of each account group and the
split by account type.

With --watch the dashboard is redrawn every interval until interrupted, and
the session is refreshed before it expires.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive")
			}
			if watch {
				return runDashboardWatch(cmd.Context(), app, interval)
			}
			return app.protect(cmd.Context(), app.renderDashboard)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Redraw the dashboard until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "Redraw interval in watch mode")

	return cmd
}

func runDashboardWatch(ctx context.Context, app *App, interval time.Duration) error {
	g := guard.New(app.Session, app.Gate, app.Router, app.Log)
	if _, err := g.Await(ctx, app.Gate); err != nil {
		return err
	}

	refreshCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go app.Refresher.Run(refreshCtx, refreshCheckInterval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		switch d := g.Evaluate(); d.View {
		case guard.ViewProtected:
			err := app.renderDashboard(ctx)
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, ErrNotSignedIn) {
				return err
			}
			if err != nil {
				app.Log.Warn().Err(err).Msg("Dashboard update failed")
				app.renderer().Error(err.Error())
			}
		case guard.ViewEmpty:
			return ErrNotSignedIn
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fmt.Fprintln(app.Out)
		}
	}
}

// NewGroupsCmd creates the groups command
func NewGroupsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "groups",
		Aliases: []string{"ls"},
		Short:   "List account groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.protect(cmd.Context(), app.showGroups)
		},
	}
}

func (a *App) showGroups(ctx context.Context) error {
	return a.authed(ctx, func(ctx context.Context, token string) error {
		groups, err := a.API.ListAccountGroups(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to list account groups: %w", err)
		}
		a.renderer().Groups(groups)
		return nil
	})
}
