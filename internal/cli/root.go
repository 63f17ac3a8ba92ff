package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/networth-tracker/networth/internal/cli/commands"
)

var version = "dev" // Will be set during build

// skipSetup lists commands that run without config, session or theme
var skipSetup = map[string]bool{
	"version": true,
	"init":    true,
	"help":    true,
}

// NewRootCmd builds the command tree around app
func NewRootCmd(app *commands.App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "networth",
		Short: "Net Worth Tracker - your finances from the terminal",
		Long: `networth is the command-line client for the Net Worth Tracker.

Sign in once and the session is kept between commands and refreshed before
it expires. Colours follow the theme you pick with 'networth theme'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipSetup[cmd.Name()] {
				return nil
			}
			ctx := cmd.Context()
			if err := app.Setup(ctx); err != nil {
				return err
			}

			// Refresh a token that is close to expiry before the command runs.
			if err := app.Gate.Wait(ctx); err != nil {
				return err
			}
			_ = app.Refresher.CheckAndRefresh(ctx)
			return nil
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(app.Out, "networth version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd(app))
	rootCmd.AddCommand(commands.NewLoginCmd(app))
	rootCmd.AddCommand(commands.NewRegisterCmd(app))
	rootCmd.AddCommand(commands.NewLogoutCmd(app))
	rootCmd.AddCommand(commands.NewWhoamiCmd(app))
	rootCmd.AddCommand(commands.NewDashboardCmd(app))
	rootCmd.AddCommand(commands.NewGroupsCmd(app))
	rootCmd.AddCommand(commands.NewThemeCmd(app))
	rootCmd.AddCommand(commands.NewDashCmd(app))

	return rootCmd
}

// Execute runs the command line against a new App. Navigation requested
// while the command ran is shown after it returns.
func Execute(ctx context.Context, args []string, opts ...commands.Option) error {
	app := commands.NewApp(opts...)
	rootCmd := NewRootCmd(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(app.Out)
	rootCmd.SetErr(app.ErrOut)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(app.ErrOut, "Error: %v\n", err)
	}

	if app.Ready() {
		if flushErr := app.Router.Flush(ctx); flushErr != nil {
			fmt.Fprintf(app.ErrOut, "Error: %v\n", flushErr)
			if err == nil {
				err = flushErr
			}
		}
	}
	return err
}
