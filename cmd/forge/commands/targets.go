package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "targets",
		Aliases: []string{"ls"},
		Short:   "List the visible targets of the build file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return c.app.ListTargets(cmd.Context(), dir)
		},
	}
}
