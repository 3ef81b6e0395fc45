package commands

import (
	"github.com/spf13/cobra"
	"go.loomci.dev/loom/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Expand the build matrix and execute all jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			branch, _ := cmd.Flags().GetString("branch")
			event, _ := cmd.Flags().GetString("event")
			parallelism, _ := cmd.Flags().GetInt("jobs")
			config, _ := cmd.Flags().GetString("config")
			return c.app.Run(cmd.Context(), app.RunOptions{
				Branch:      branch,
				Event:       event,
				Config:      config,
				Parallelism: parallelism,
			})
		},
	}
	cmd.Flags().StringP("branch", "b", "", "Branch the push event landed on")
	cmd.Flags().String("event", app.EventPush, "Event kind that occurred")
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of jobs to run at once (0 means one per CPU)")
	_ = cmd.MarkFlagRequired("branch")
	return cmd
}
