package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/networth-tracker/networth/internal/cli/theme"
	"github.com/networth-tracker/networth/internal/cli/themeselect"
)

// promptTheme is replaced in tests
var promptTheme = themeselect.Prompt

// NewThemeCmd creates the theme command and its subcommands
func NewThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme [name]",
		Short: "Show or change the colour theme",
		Long: `Show or change the colour theme.

Without an argument the current theme is printed.

Examples:
  $ networth theme           # Show the current theme
  $ networth theme ocean     # Switch to the Ocean Blue theme
  $ networth theme select    # Interactive selection`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runThemeShow(cmd.Context(), app)
			}
			name, err := themeselect.Lookup(args[0])
			if err != nil {
				return fmt.Errorf("%w\nRun 'networth theme list' to see the available themes", err)
			}
			return runThemeSet(cmd.Context(), app, name)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Gate.Wait(cmd.Context()); err != nil {
				return err
			}
			app.renderer().Themes(app.Theme.Theme())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select",
		Short: "Pick a theme interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Gate.Wait(ctx); err != nil {
				return err
			}
			name, err := promptTheme(app.Theme.Theme())
			if err != nil {
				return err
			}
			return runThemeSet(ctx, app, name)
		},
	})

	return cmd
}

func runThemeShow(ctx context.Context, app *App) error {
	if err := app.Gate.Wait(ctx); err != nil {
		return err
	}
	p := app.Theme.Palette()
	fmt.Fprintf(app.Out, "%s (%s)\n", app.renderer().Styles().Title.Render(p.Label), p.Name)
	return nil
}

func runThemeSet(ctx context.Context, app *App, name theme.Name) error {
	// Hydration would otherwise overwrite the new selection.
	if err := app.Gate.Wait(ctx); err != nil {
		return err
	}
	if err := app.Theme.SetTheme(name); err != nil {
		return err
	}

	p := app.Theme.Palette()
	fmt.Fprintf(app.Out, "✓ Theme set to %s\n", app.renderer().Styles().Accent.Render(p.Label))
	return nil
}
