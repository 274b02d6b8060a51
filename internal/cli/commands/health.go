package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/grantview/internal/grants"
	"github.com/leapstack-labs/grantview/pkg/core"
)

// HealthOutput is the structured output of the health command.
type HealthOutput struct {
	URL     string       `json:"url" yaml:"url"`
	Healthy bool         `json:"healthy" yaml:"healthy"`
	Health  *core.Health `json:"health,omitempty" yaml:"health,omitempty"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewHealthCommand creates the health command.
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the grants service",
		Long:  `Call the service health endpoint and report its status. Exits non-zero when the service is unhealthy or unreachable.`,
		Example: `  grantview health
  grantview health --api-url http://grants.internal:5000 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealth(cmd)
		},
	}
}

func runHealth(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	h, healthErr := cmdCtx.Client.Health(cmd.Context())
	out := HealthOutput{
		URL:     cmdCtx.Client.BaseURL(),
		Healthy: healthErr == nil && h != nil && h.Healthy(),
		Health:  h,
	}
	if healthErr != nil {
		out.Error = grants.UserMessage(healthErr)
	}

	if ok, err := r.Structured(out); ok {
		if err != nil {
			return err
		}
		return healthResult(out)
	}

	status, detail := "success", "healthy"
	if !out.Healthy {
		status, detail = "error", out.Error
		if detail == "" && h != nil {
			detail = h.Status
		}
	}
	r.Header(1, "Grants service")
	r.StatusLine(out.URL, status, detail)
	if h != nil {
		if h.Database != "" {
			r.KeyValue("Database", h.Database)
		}
		if h.GroqAPI != "" {
			r.KeyValue("Tagger API", h.GroqAPI)
		}
		if out.Healthy {
			r.KeyValue("Grants", fmt.Sprintf("%d", h.GrantsCount))
		}
	}
	return healthResult(out)
}

func healthResult(out HealthOutput) error {
	if out.Healthy {
		return nil
	}
	if out.Error != "" {
		return fmt.Errorf("service unhealthy: %s", out.Error)
	}
	return fmt.Errorf("service unhealthy")
}
