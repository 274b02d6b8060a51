package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/grantview/internal/app"
	"github.com/leapstack-labs/grantview/internal/cli/output"
	"github.com/leapstack-labs/grantview/internal/tagfilter"
	"github.com/leapstack-labs/grantview/pkg/core"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Tags []string
}

// ListOutput is the structured output of the list command.
type ListOutput struct {
	Total    int          `json:"total" yaml:"total"`
	Shown    int          `json:"shown" yaml:"shown"`
	Selected []string     `json:"selected_tags" yaml:"selected_tags"`
	Grants   []core.Grant `json:"grants" yaml:"grants"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List grants, optionally filtered by tag",
		Long: `Fetch the grant list once and print it.

Repeated --tag flags select grants carrying at least one of the tags.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # List all grants
  grantview list

  # Grants tagged water or energy
  grantview list --tag water --tag energy

  # List as JSON
  grantview list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Tags, "tag", "t", nil, "Only show grants with this tag (repeatable)")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if err := cmdCtx.Store.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load grants: %w", err)
	}

	snap := cmdCtx.Store.Snapshot()
	selected := tagfilter.NewSelection(opts.Tags...)
	shown := tagfilter.Filtered(snap.Grants, selected)

	out := ListOutput{
		Total:    len(snap.Grants),
		Shown:    len(shown),
		Selected: selected.Tags(),
		Grants:   shown,
	}

	if ok, err := r.Structured(out); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		listMarkdown(r, out)
		return nil
	}
	listText(r, out, emptyText(out))
	return nil
}

func listTitle(out ListOutput) string {
	if len(out.Selected) == 0 {
		return fmt.Sprintf("Grants (%d total)", out.Total)
	}
	return fmt.Sprintf("Grants (%d of %d, tags: %s)", out.Shown, out.Total, strings.Join(out.Selected, ", "))
}

func emptyText(out ListOutput) string {
	if out.Total == 0 {
		return app.EmptyNoGrants
	}
	return app.EmptyNoMatches
}

// listText outputs grants as a styled table, or empty when there are none.
func listText(r *output.Renderer, out ListOutput, empty string) {
	r.Header(1, listTitle(out))
	if len(out.Grants) == 0 {
		r.Muted(empty)
		return
	}

	rows := make([][]string, len(out.Grants))
	for i, g := range out.Grants {
		rows[i] = []string{g.Name, truncateOneLine(g.Description, 60), strings.Join(g.Tags, ", ")}
	}
	r.Table([]string{"Name", "Description", "Tags"}, rows)
}

// listMarkdown outputs grants in markdown format.
func listMarkdown(r *output.Renderer, out ListOutput) {
	r.Header(1, listTitle(out))
	if len(out.Grants) == 0 {
		r.Println("_" + emptyText(out) + "_")
		return
	}

	for _, g := range out.Grants {
		r.Println(output.FormatHeader(2, g.Name))
		r.Println("")
		r.Println(output.OneLine(g.Description))
		r.Println("")
		r.Println(output.FormatKeyValue("Tags", output.FormatTags(g.Tags)))
		r.Println("")
	}
}

func truncateOneLine(s string, maxLen int) string {
	s = output.OneLine(s)
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
