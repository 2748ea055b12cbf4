package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <script>",
		Short: "Print the references, modules and includes a build script declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			return c.app.Analyze(cmd.Context(), args[0], app.AnalyzeOptions{
				Format:  format,
				NoCache: noCache,
			})
		},
	}
	cmd.Flags().StringP("format", "f", app.FormatYAML, "Output format: yaml or json")
	cmd.Flags().Bool("no-cache", false, "Analyze again even if a cached result is valid")
	return cmd
}
