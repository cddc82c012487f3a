package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newAllCommand(a *app) *cobra.Command {
	var (
		reportOpts reportOptions
		plotsOpts  plotsOptions
	)

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Print the leaderboard and render the story plots",
		Long: `Print the leaderboard and render the story plots.

Both steps always run; a failure in one is reported after the other has
finished.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportErr := a.report(a.reportOptions(cmd, reportOpts))
			plotsErr := a.plots(cmd.Context(), a.plotsOptions(cmd, plotsOpts))
			return errors.Join(reportErr, plotsErr)
		},
	}

	addReportFlags(cmd, &reportOpts)
	addPlotsFlags(cmd, &plotsOpts)
	return cmd
}
