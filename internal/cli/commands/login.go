package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/networth-tracker/networth/internal/cli/login"
)

// NewLoginCmd creates the login command
func NewLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the Net Worth Tracker API",
		Long: `Sign in and keep the session for later commands.

The dashboard is shown once the sign in succeeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), app, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set NETWORTH_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set NETWORTH_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, app *App, email, password string) error {
	// Check for environment variables (useful for scripts)
	if email == "" {
		email = os.Getenv("NETWORTH_EMAIL")
	}
	if password == "" {
		password = os.Getenv("NETWORTH_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or NETWORTH_EMAIL env var)")
	}

	if password == "" {
		if !stdinIsTerminal() {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or NETWORTH_PASSWORD env var)")
		}
		p, err := readPassword(app.ErrOut, "Password")
		if err != nil {
			return err
		}
		password = p
	}

	// The stored session must be loaded before it is replaced.
	if err := app.Gate.Wait(ctx); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Signing in to %s...\n", app.API.BaseURL())

	if err := app.Login.Submit(ctx, email, password); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s", errLoginFailed, app.Login.Error())
	}

	printSignedIn(app)
	return nil
}

var errLoginFailed = errors.New("login failed")

func printSignedIn(app *App) {
	u, _ := app.Session.User()
	fmt.Fprintln(app.Out, "✓ Login successful!")
	fmt.Fprintf(app.Out, "  User: %s (%s)\n", u.DisplayName(), u.Email)
}

// NewRegisterCmd creates the register command
func NewRegisterCmd(app *App) *cobra.Command {
	var form login.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.Context(), app, form)
		},
	}

	cmd.Flags().StringVar(&form.Username, "username", "", "Username (3-50 characters)")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().BoolVar(&form.AcceptTerms, "accept-terms", false, "Agree to the terms of service")

	return cmd
}

func runRegister(ctx context.Context, app *App, form login.RegisterForm) error {
	if form.Password == "" {
		if !stdinIsTerminal() {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag)")
		}
		p, err := readPassword(app.ErrOut, "Password")
		if err != nil {
			return err
		}
		confirm, err := readPassword(app.ErrOut, "Confirm password")
		if err != nil {
			return err
		}
		form.Password, form.ConfirmPassword = p, confirm
	} else if form.ConfirmPassword == "" {
		form.ConfirmPassword = form.Password
	}

	if err := app.Gate.Wait(ctx); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Creating account %s...\n", form.Username)

	if err := app.Login.Register(ctx, form); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s", errRegistrationFailed, app.Login.Error())
	}

	printSignedIn(app)
	return nil
}

var errRegistrationFailed = errors.New("registration failed")

// NewLogoutCmd creates the logout command
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Gate.Wait(ctx); err != nil {
				return err
			}

			if !app.Session.IsAuthenticated() {
				app.Session.ClearAuth()
				fmt.Fprintln(app.Out, "Not signed in.")
				return nil
			}

			app.Login.Logout(ctx)
			fmt.Fprintln(app.Out, "✓ Logged out")
			return nil
		},
	}
}
