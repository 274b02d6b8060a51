package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/grantview/internal/cli/config"
	"github.com/leapstack-labs/grantview/internal/ui"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port         int
	NoBrowser    bool
	PollInterval time.Duration
	Dev          bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the grants web UI",
		Long: `Start a local web server providing an interactive grants UI.

The UI provides:
- The grant list with tag filters
- A form for adding grants
- Live updates when the list changes`,
		Example: `  # Start UI on default port
  grantview ui

  # Start on custom port
  grantview ui --port 3000

  # Pick up grants added elsewhere every 30 seconds
  grantview ui --poll 30s

  # Start without auto-opening browser
  grantview ui --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, fmt.Sprintf("Port to serve on (default: %d)", config.DefaultUIPort))
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().DurationVar(&opts.PollInterval, "poll", 0, "Refresh the grant list on this interval (0 disables)")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Enable hot reload endpoints")
	_ = cmd.Flags().MarkHidden("dev")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	uiCfg := cmdCtx.Cfg.UI

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	poll := uiCfg.PollInterval
	if cmd.Flags().Changed("poll") {
		poll = opts.PollInterval
	}

	server := ui.NewServer(ui.Config{
		Store:         cmdCtx.Store,
		Port:          port,
		SessionSecret: uiCfg.SessionSecret,
		PollInterval:  poll,
		Dev:           opts.Dev,
		Logger:        cmdCtx.Logger,
	})

	if autoOpen {
		go openBrowser(server.URL())
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Starting UI server on %s (grants service: %s)\n", server.URL(), cmdCtx.Client.BaseURL())
	_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
