package main

import (
	"context"
	"fmt"

	"github.com/spboyer/modelreport/internal/correlation"
	"github.com/spboyer/modelreport/internal/dataset"
	"github.com/spboyer/modelreport/internal/diagnostics"
	"github.com/spboyer/modelreport/internal/output"
	"github.com/spboyer/modelreport/internal/projectconfig"
	"github.com/spboyer/modelreport/internal/spinner"
	"github.com/spf13/cobra"
)

type plotsOptions struct {
	dataset    string
	out        string
	engineered bool
}

func newPlotsCommand(a *app) *cobra.Command {
	var opts plotsOptions

	cmd := &cobra.Command{
		Use:   "plots",
		Short: "Render the diagnostic story plots",
		Long: `Render the diagnostic story plots from the student dataset.

Writes four PNG views: the ghosting effect, the financial impact of tuition
arrears, semester grade momentum, and a correlation heatmap of the features
most associated with the outcome. A failing view does not stop the others;
the command exits with code 1 when any view failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.plots(cmd.Context(), a.plotsOptions(cmd, opts))
		},
	}

	addPlotsFlags(cmd, &opts)
	return cmd
}

func addPlotsFlags(cmd *cobra.Command, opts *plotsOptions) {
	cmd.Flags().StringVarP(&opts.dataset, "dataset", "d", "", "Dataset CSV to read (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Directory to write plots to (default from config)")
	cmd.Flags().BoolVar(&opts.engineered, "engineered", false, "Dataset is already feature-engineered; read its columns as-is")
}

func (a *app) plotsOptions(cmd *cobra.Command, opts plotsOptions) plotsOptions {
	if !cmd.Flags().Changed("dataset") {
		opts.dataset = a.cfg.Paths.Dataset
	}
	if !cmd.Flags().Changed("out") {
		opts.out = a.cfg.Paths.Plots
	}
	if !cmd.Flags().Changed("engineered") {
		opts.engineered = a.cfg.Plots.Engineered
	}
	return opts
}

func (a *app) plotSet() *diagnostics.PlotSet {
	theme := diagnostics.DefaultTheme().WithSize(a.cfg.Plots.Width, a.cfg.Plots.Height)
	if a.cfg.Plots.FontSize > 0 {
		theme.FontSize = a.cfg.Plots.FontSize
	}
	set := diagnostics.NewPlotSet(theme, correlation.Selector{
		Head: a.cfg.Correlation.Head,
		Tail: a.cfg.Correlation.Tail,
	})
	if p := a.cfg.Plots.Parallel; p != nil && !*p {
		set.Workers = 1
	}
	return set
}

// plots renders every view. It returns a PartialFailureError when at
// least one view failed and the others were still written.
func (a *app) plots(ctx context.Context, opts plotsOptions) error {
	p := a.printer

	table, err := dataset.LoadCSV(opts.dataset)
	if err != nil {
		return &output.CLIError{
			Summary:    "Could not load dataset",
			Detail:     err.Error(),
			Suggestion: "Pass --dataset or set paths.dataset in " + projectconfig.FileName,
			Err:        err,
		}
	}
	var engineer dataset.Engineer = dataset.DefaultEngineer{}
	if opts.engineered {
		engineer = dataset.Identity
	}
	table, err = engineer.Transform(table)
	if err != nil {
		return fmt.Errorf("feature engineering failed: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	p.Heading("📊 Generating story plots")
	stop := spinner.StartOnTerminal(p.Err(), "Rendering plots...")
	results := a.plotSet().Generate(ctx, table, opts.out)
	stop()

	failed := 0
	for _, r := range results {
		if r.OK() {
			p.Success("%s: %s", r.Name, r.Path)
			continue
		}
		failed++
		p.Error("%v", r.Err)
	}

	if failed > 0 {
		return &PartialFailureError{Failed: failed, Total: len(results)}
	}
	p.Success("All story plots generated successfully in %s", opts.out)
	return nil
}
