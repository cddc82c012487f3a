package main

import (
	"errors"
	"log/slog"

	"github.com/spboyer/modelreport/internal/artifact"
	"github.com/spboyer/modelreport/internal/output"
	"github.com/spboyer/modelreport/internal/ranking"
	"github.com/spboyer/modelreport/internal/reporting"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	artifact  string
	format    string
	top       int
	nameWidth int
}

func newReportCommand(a *app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the model leaderboard of the latest run",
		Long: `Print the model leaderboard of the latest training run.

Loads the run's metrics artifact, ranks the compared models by macro F1,
and prints the leaderboard followed by a per-class F1 breakdown of the
top models.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.report(a.reportOptions(cmd, opts))
		},
	}

	addReportFlags(cmd, &opts)
	return cmd
}

func addReportFlags(cmd *cobra.Command, opts *reportOptions) {
	cmd.Flags().StringVarP(&opts.artifact, "artifact", "a", "", "Metrics artifact to read (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: table, json, markdown, or html")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 0, "Number of models in the per-class breakdown")
	cmd.Flags().IntVar(&opts.nameWidth, "name-width", 0, "Truncate model names wider than this")
}

// reportOptions fills every option the user did not set from config.
func (a *app) reportOptions(cmd *cobra.Command, opts reportOptions) reportOptions {
	if !cmd.Flags().Changed("artifact") {
		opts.artifact = a.cfg.Paths.Artifact
	}
	if !cmd.Flags().Changed("format") {
		opts.format = a.cfg.Report.Format
	}
	if !cmd.Flags().Changed("top") {
		opts.top = a.cfg.Report.TopN
	}
	if !cmd.Flags().Changed("name-width") {
		opts.nameWidth = a.cfg.Report.NameWidth
	}
	return opts
}

// report loads, ranks, and renders the comparison. A missing artifact or
// an empty comparison is reported as a warning and is not an error.
func (a *app) report(opts reportOptions) error {
	format, err := reporting.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	snap, err := artifact.Load(opts.artifact)
	switch {
	case errors.Is(err, artifact.ErrMissingArtifact):
		a.printer.FormatError(&output.CLIError{
			Summary:    "No metrics artifact found at " + opts.artifact,
			Suggestion: "Run the pipeline first: python run_pipeline.py --quick",
			Severity:   output.SeverityWarning,
			Err:        err,
		})
		return nil
	case errors.Is(err, artifact.ErrEmptyComparison):
		a.printer.FormatError(&output.CLIError{
			Summary:    "No model comparison data found in " + opts.artifact,
			Suggestion: "You may need to re-run the pipeline with the updated code.",
			Severity:   output.SeverityWarning,
			Err:        err,
		})
		return nil
	case err != nil:
		return &output.CLIError{
			Summary:    "Could not read metrics artifact",
			Detail:     err.Error(),
			Suggestion: "Check that " + opts.artifact + " was written by a compatible pipeline version",
			Err:        err,
		}
	}

	run, err := ranking.Rank(snap.Results)
	if errors.Is(err, ranking.ErrNoData) {
		a.printer.Warning("No model comparison data to display")
		return nil
	}
	if err != nil {
		return err
	}
	if best, ok := run.Best(); ok {
		slog.Debug("Ranked models", "count", len(run), "best", best.ModelName)
	}

	r := reporting.NewRenderer(a.printer, reporting.Options{
		Format:    format,
		TopN:      opts.top,
		NameWidth: opts.nameWidth,
		RunID:     snap.RunID,
		Timestamp: snap.Timestamp,
	})
	return r.Render(run)
}
