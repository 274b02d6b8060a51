package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/grantview/internal/grants"
	"github.com/leapstack-labs/grantview/pkg/core"
)

// AddOptions holds options for the add command.
type AddOptions struct {
	Name        string
	Description string
}

// AddOutput is the structured output of the add command.
type AddOutput struct {
	Message string      `json:"message" yaml:"message"`
	Total   int         `json:"total" yaml:"total"`
	Grant   *core.Grant `json:"grant,omitempty" yaml:"grant,omitempty"`
}

// NewAddCommand creates the add command.
func NewAddCommand() *cobra.Command {
	opts := &AddOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a grant",
		Long: `Submit a new grant. The service assigns tags; the refreshed list is
fetched afterwards and the new grant's tags are printed.`,
		Example: `  grantview add --name "Rural Water Access" \
    --description "Funding for wells and water conservation in rural areas"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Grant name (required)")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Grant description (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *AddOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	ctrl := cmdCtx.NewController()
	ctrl.SetName(opts.Name)
	ctrl.SetDescription(opts.Description)

	if err := ctrl.Submit(cmd.Context()); err != nil {
		if errors.Is(err, grants.ErrInvalidGrant) {
			return fmt.Errorf("name and description must not be blank")
		}
		return fmt.Errorf("adding grant: %s", grants.UserMessage(err))
	}

	view := ctrl.View()
	out := AddOutput{Message: view.Message.Text, Total: view.Total}
	if g, ok := findGrant(cmdCtx.Store.Snapshot().Grants, opts.Name); ok {
		out.Grant = &g
	}

	if ok, err := r.Structured(out); ok {
		return err
	}

	r.Success(out.Message)
	if view.Notice != "" {
		r.Warning(view.Notice)
		return nil
	}
	r.KeyValue("Grants", fmt.Sprintf("%d", out.Total))
	if out.Grant != nil {
		r.KeyValue("Tags", r.Tags(out.Grant.Tags))
	}
	return nil
}

// findGrant returns the last grant named name, ignoring surrounding
// whitespace. Names are not unique, so the most recently appended one is
// taken as the new grant.
func findGrant(list []core.Grant, name string) (core.Grant, bool) {
	name = strings.TrimSpace(name)
	for i := len(list) - 1; i >= 0; i-- {
		if strings.TrimSpace(list[i].Name) == name {
			return list[i], true
		}
	}
	return core.Grant{}, false
}
