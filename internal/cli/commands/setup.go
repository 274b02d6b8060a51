// Package commands implements the grantview CLI subcommands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/grantview/internal/app"
	"github.com/leapstack-labs/grantview/internal/cli/config"
	"github.com/leapstack-labs/grantview/internal/cli/output"
	"github.com/leapstack-labs/grantview/internal/grants"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Client   *grants.Client
	Store    *grants.Store
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a grants client, an
// empty store over it, and a renderer for the configured output mode.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	client, err := grants.NewClient(grants.ClientConfig{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Client:   client,
		Store:    grants.NewStore(grants.StoreConfig{Service: client, Logger: logger}),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}, nil
}

// NewController returns a controller over the context's store.
func (c *CommandContext) NewController() *app.Controller {
	return app.NewController(c.Store, c.Logger)
}

// getConfig returns the current configuration, or the defaults when the
// command runs without the root command's config loading.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
