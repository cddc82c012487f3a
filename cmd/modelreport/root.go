package main

import (
	"fmt"
	"log/slog"

	"github.com/spboyer/modelreport/internal/output"
	"github.com/spboyer/modelreport/internal/projectconfig"
	"github.com/spf13/cobra"
)

var version = "dev"

// app carries the state resolved once by the root command and shared by
// every subcommand.
type app struct {
	cfg     *projectconfig.ProjectConfig
	printer *output.Printer
}

type rootFlags struct {
	debug      bool
	color      string
	configPath string
	workDir    string
}

func newRootCommand() *cobra.Command {
	a := &app{}
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "modelreport",
		Short: "Modelreport - reports for the student outcome model comparison",
		Long: `Modelreport presents the results of a student outcome training run.

It prints a ranked leaderboard of the compared models from the run's
metrics artifact and renders diagnostic story plots from the dataset.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.color, "color", "", "Color output: auto, always, or never (default from config)")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a config file (default: search for "+projectconfig.FileName+")")
	cmd.PersistentFlags().StringVar(&flags.workDir, "dir", ".", "Directory to start the config search from")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if flags.debug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		return a.init(cmd, flags)
	}

	cmd.AddCommand(newReportCommand(a))
	cmd.AddCommand(newPlotsCommand(a))
	cmd.AddCommand(newAllCommand(a))

	return cmd
}

func (a *app) init(cmd *cobra.Command, flags rootFlags) error {
	var (
		cfg *projectconfig.ProjectConfig
		err error
	)
	if flags.configPath != "" {
		cfg, err = projectconfig.LoadFile(flags.configPath)
	} else {
		cfg, err = projectconfig.Load(flags.workDir)
	}
	if err != nil {
		return &output.CLIError{
			Summary:    "Could not load configuration",
			Detail:     err.Error(),
			Suggestion: "Fix or remove " + projectconfig.FileName,
			Err:        err,
		}
	}
	if cfg.Source != "" {
		slog.Debug("Loaded configuration", "path", cfg.Source)
	}

	mode := cfg.Report.Colors
	if cmd.Flags().Changed("color") {
		mode = flags.color
	}
	colorMode, err := output.ParseColorMode(mode)
	if err != nil {
		return fmt.Errorf("invalid color setting: %w", err)
	}

	a.cfg = cfg
	a.printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(colorMode, cmd.OutOrStdout()))
	return nil
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
