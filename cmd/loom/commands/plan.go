package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the jobs a push would run, without executing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			branch, _ := cmd.Flags().GetString("branch")
			config, _ := cmd.Flags().GetString("config")

			jobs, err := c.app.Plan(config, branch)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				cmd.Printf("no jobs for a push to %q\n", branch)
				return nil
			}

			for _, job := range jobs {
				cmd.Printf("%s  %s  runs-on=%s  steps=%d\n", job.ID, job.Name, job.Runner, len(job.Steps))
			}
			cmd.Printf("%d job(s)\n", len(jobs))
			return nil
		},
	}
	cmd.Flags().StringP("branch", "b", "", "Branch the push event would land on")
	_ = cmd.MarkFlagRequired("branch")
	return cmd
}
