package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.protect(cmd.Context(), app.showProfile)
		},
	}
}

// showProfile reloads the profile from the API so that changes made
// elsewhere are picked up, and prints it.
func (a *App) showProfile(ctx context.Context) error {
	return a.authed(ctx, func(ctx context.Context, token string) error {
		u, err := a.API.GetCurrentUser(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		if err := a.Session.SetUser(*u); err != nil {
			return err
		}
		a.renderer().Profile(*u)
		return nil
	})
}
