package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/grantview/internal/cli/output"
	"github.com/leapstack-labs/grantview/internal/tagfilter"
)

// TagsOutput is the structured output of the tags command.
type TagsOutput struct {
	Tags   []string       `json:"tags" yaml:"tags"`
	Counts map[string]int `json:"counts" yaml:"counts"`
}

// NewTagsCommand creates the tags command.
func NewTagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		Long:  `Print the sorted set of tags attached to any grant, with how many grants carry each.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTags(cmd)
		},
	}
}

func runTags(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if err := cmdCtx.Store.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load grants: %w", err)
	}
	snap := cmdCtx.Store.Snapshot()

	out := TagsOutput{Tags: snap.Tags, Counts: make(map[string]int, len(snap.Tags))}
	for _, tag := range snap.Tags {
		out.Counts[tag] = len(tagfilter.Filtered(snap.Grants, tagfilter.NewSelection(tag)))
	}

	if ok, err := r.Structured(out); ok {
		return err
	}

	r.Header(1, fmt.Sprintf("Tags (%d)", len(out.Tags)))
	if len(out.Tags) == 0 {
		r.Muted("No tags yet.")
		return nil
	}
	for _, tag := range out.Tags {
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Println(fmt.Sprintf("- `%s` (%d)", tag, out.Counts[tag]))
			continue
		}
		r.Println(fmt.Sprintf("%s %s", r.Tags([]string{tag}), r.Styles().Muted.Render(fmt.Sprintf("%d", out.Counts[tag]))))
	}
	return nil
}
