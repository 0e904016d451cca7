package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/puppet/internal/app"
)

func (c *CLI) newDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy <manifest>",
		Short: "Converge every spoke-local portfolio and share in the manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Deploy(cmd.Context(), args[0], runOptions(cmd))
		},
	}
	addRunFlags(cmd)
	cmd.Flags().String("single-account", "", "Only deploy to the given account id")
	return cmd
}

func (c *CLI) newGenerateSharesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-shares <manifest>",
		Short: "Share hub portfolios with every target account without deploying them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.GenerateShares(cmd.Context(), args[0], runOptions(cmd))
		},
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("workers", "w", app.DefaultWorkers, "Number of tasks to run concurrently")
	cmd.Flags().StringP("output-mode", "o", app.OutputLinear, "Progress output (linear, progrock, quiet)")
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	workers, _ := cmd.Flags().GetInt("workers")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	opts := app.RunOptions{
		Workers:    workers,
		OutputMode: outputMode,
	}
	if f := cmd.Flags().Lookup("single-account"); f != nil {
		opts.SingleAccount = f.Value.String()
	}
	return opts
}
