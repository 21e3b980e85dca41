package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexshd/scalebench/internal/config"
	"github.com/alexshd/scalebench/internal/report"
)

var version = "0.1.0-dev"

// app carries state resolved once in the root command's pre-run.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	format report.Format
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("scalebench failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "scalebench",
		Short: "Scaling-exponent estimation for time series",
		Long: `scalebench estimates the Hurst exponent and fractal dimension of a series
with detrended fluctuation analysis, variance of increments or rescaled range.

It also generates reference series, measures power-law concentration and
reproduces the fractal-dimension experiment with its controls.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("format", "", "Output format: json, yaml or text")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored logs")

	rootCmd.AddCommand(
		newVersionCmd(),
		newEstimateCmd(a),
		newDimensionCmd(a),
		newGenerateCmd(a),
		newConcentrationCmd(a),
		newExperimentCmd(a),
		newConfigCmd(a),
	)

	return rootCmd
}

// setup loads the config, applies global flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("no-color") {
		cfg.Log.NoColor, _ = flags.GetBool("no-color")
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	logOut := cmd.ErrOrStderr()
	logger, err := newLogger(logOut, cfg.Log.Level, cfg.Log.NoColor || !isTerminal(logOut))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.log = logger
	a.format = format
	return nil
}

// isTerminal reports whether w is a terminal. Redirected logs get no ANSI codes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newLogger(w io.Writer, level string, noColor bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	})), nil
}

// render writes v to the command's stdout, or to path when set.
func (a *app) render(cmd *cobra.Command, path string, v report.Texter) error {
	if path == "" || path == "-" {
		return report.Render(cmd.OutOrStdout(), a.format, v)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := report.Render(f, a.format, v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	a.log.Info("report written", "path", path, "format", a.format)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scalebench version %s\n", version)
		},
	}
}
