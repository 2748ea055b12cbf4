package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run targets and their dependencies",
		Long: "Run the named targets, or the default targets of the build file when none are named.\n" +
			"Dependencies run first: synchronous ones in order, consecutive asynchronous ones concurrently.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			skipDeps, _ := cmd.Flags().GetBool("skip-deps")
			only, _ := cmd.Flags().GetStringSlice("only")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			parallelism, _ := cmd.Flags().GetInt("parallelism")
			watch, _ := cmd.Flags().GetBool("watch")

			opts := app.RunOptions{
				Dir:              dir,
				SkipDependencies: skipDeps,
				Only:             only,
				DryRun:           dryRun,
				Parallelism:      parallelism,
			}
			if watch {
				return c.app.Watch(cmd.Context(), args, opts)
			}
			return c.app.Run(cmd.Context(), args, opts)
		},
	}
	cmd.Flags().BoolP("skip-deps", "s", false, "Run only the named targets, skipping their dependencies")
	cmd.Flags().StringSlice("only", nil, "Allow only these dependencies to run (comma separated)")
	cmd.Flags().BoolP("dry-run", "n", false, "Walk the dependency graph without running tasks")
	cmd.Flags().IntP("parallelism", "p", 0, "Limit concurrently running asynchronous dependencies (0 is unlimited)")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild whenever files below the build file change")
	return cmd
}
