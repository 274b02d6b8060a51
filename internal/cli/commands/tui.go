package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/grantview/internal/tui"
)

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and add grants in a terminal UI",
		Long: `Open a full-screen terminal UI with the grant list, tag filters and
the add-grant form.

Keys on the grants tab:
  ←/→ or h/l   move between tags
  space/enter  toggle the highlighted tag
  c            clear filters
  r            refresh the list
  a or tab     switch to the add form
  q            quit

Keys on the add tab:
  tab          next field
  ctrl+s       submit
  esc          back to the grants tab`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), cmdCtx.NewController())
		},
	}
}
