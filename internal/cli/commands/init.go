package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/networth-tracker/networth/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd(app *App) *cobra.Command {
	var sessionStorage string

	cmd := &cobra.Command{
		Use:   "init <api-url>",
		Short: "Point the CLI at a Net Worth Tracker API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(app, args[0], sessionStorage)
		},
	}

	cmd.Flags().StringVar(&sessionStorage, "session-storage", "", "Where to keep the session: keyring or file")

	return cmd
}

func runInit(app *App, apiURL, sessionStorage string) error {
	apiURL = strings.TrimRight(apiURL, "/")
	if !strings.Contains(apiURL, "://") {
		apiURL = "http://" + apiURL
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	configPath := filepath.Join(currentDir, config.FileName)

	cfg := &config.File{}
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Fprintf(app.Out, "Found existing %s\n", config.FileName)
	}

	cfg.APIURL = apiURL
	if sessionStorage != "" {
		cfg.SessionStorage = sessionStorage
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "✓ Saved %s\n", configPath)
	fmt.Fprintf(app.Out, "  API: %s\n", cfg.APIURL)
	fmt.Fprintln(app.Out, "\nNext: networth login --email you@example.com")
	return nil
}
