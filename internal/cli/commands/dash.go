package commands

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// openBrowser is replaced in tests
var openBrowser = func(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// NewDashCmd creates the dash command
func NewDashCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the web dashboard in browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboardURL := strings.TrimRight(app.Config.API.AppURL, "/") + "/dashboard"

			fmt.Fprintf(app.Out, "Opening %s...\n", dashboardURL)
			if err := openBrowser(dashboardURL); err != nil {
				return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, dashboardURL)
			}
			return nil
		},
	}
}
