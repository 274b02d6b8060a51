package commands

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/grantview/internal/cli/config"
	"github.com/leapstack-labs/grantview/internal/cli/output"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect grantview configuration",
		Long: `Inspect the configuration grantview resolved from defaults, grantview.yaml,
GRANTVIEW_ environment variables and flags.`,
	}
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSchemaCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Example: `  grantview config show
  GRANTVIEW_UI_PORT=9000 grantview config show -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd)
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	cfg := getConfig()
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	settings := cfg.Redacted()

	if ok, err := r.Structured(settings); ok {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	file := config.GetConfigFileUsed()
	if file == "" {
		file = "(none)"
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(1, "Configuration")
		r.KeyValue("Config file", file)
		r.Println("")
		r.Println(output.FormatCodeBlock("yaml", string(data)))
		return nil
	}

	r.KeyValue("Config file", file)
	r.Println("")
	r.Printf("%s", data)
	return nil
}

func newConfigSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of grantview.yaml",
		Long: `Print the JSON Schema describing grantview.yaml. Point your editor's YAML
language server at it for completion and validation.`,
		Example: `  grantview config schema > grantview.schema.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeJSON)
			return r.JSON(config.Schema())
		},
	}
}
