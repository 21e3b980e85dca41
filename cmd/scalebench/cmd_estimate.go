package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexshd/scalebench"
	"github.com/alexshd/scalebench/internal/report"
	"github.com/alexshd/scalebench/internal/seriesio"
)

func newEstimateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the Hurst exponent of a series",
		Long: `Estimate the Hurst exponent of a series read from a CSV, TXT, JSON or XLSX file.

Use --strategy all to compare every strategy on the same input. A strategy
that cannot form a regression reports its error instead of an estimate.`,
		Example: `  scalebench estimate --input prices.csv --strategy variance
  scalebench generate --kind fgn --hurst 0.8 | scalebench estimate --input - --strategy all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(a, cmd)
		},
	}
	addEstimatorFlags(cmd)
	return cmd
}

func newDimensionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dimension",
		Short: "Estimate the fractal dimension D = 2 − H of a series",
		Long: `Estimate the fractal dimension of a series and classify it into
PERSISTENT, SLIGHTLY_PERSISTENT, EDGE_OF_CHAOS, SLIGHTLY_ANTI or ANTI_PERSISTENT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(a, cmd)
		},
	}
	addEstimatorFlags(cmd)
	return cmd
}

func addEstimatorFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Series file (.csv, .txt, .json, .xlsx or - for stdin)")
	cmd.Flags().StringP("strategy", "s", "", "Strategy: dfa, variance, rs or all")
	cmd.Flags().Int("min-window", 0, "Smallest window size or lag")
	cmd.Flags().Int("max-window", 0, "Largest window size or lag (0 = automatic)")
	cmd.Flags().Int("candidates", 0, "Log-spaced window-size candidates")
	cmd.Flags().Int("workers", 0, "Window sizes evaluated concurrently")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	_ = cmd.MarkFlagRequired("input")
}

// estimatorFromFlags layers changed flags over the configured estimator settings.
func estimatorFromFlags(a *app, cmd *cobra.Command) (scalebench.Config, []scalebench.Strategy, error) {
	flags := cmd.Flags()
	est := a.cfg.EstimatorConfig()

	overrides := map[string]*int{
		"min-window": &est.MinWindow,
		"max-window": &est.MaxWindow,
		"candidates": &est.Candidates,
		"workers":    &est.Workers,
	}
	for name, dst := range overrides {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}

	name := a.cfg.Estimator.Strategy
	if flags.Changed("strategy") {
		name, _ = flags.GetString("strategy")
	}
	if name == "all" {
		return est, scalebench.Strategies(), nil
	}
	s, err := scalebench.ParseStrategy(name)
	if err != nil {
		return est, nil, err
	}
	return est, []scalebench.Strategy{s}, nil
}

func runEstimate(a *app, cmd *cobra.Command) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")

	est, strategies, err := estimatorFromFlags(a, cmd)
	if err != nil {
		return err
	}

	series, err := seriesio.ReadInput(input, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read series: %w", err)
	}
	a.log.Debug("series loaded", "input", input, "length", len(series))

	view := report.Estimates{Length: len(series)}
	var succeeded int
	for _, s := range strategies {
		res, err := scalebench.EstimateHurst(series, s, est)
		switch {
		case errors.Is(err, scalebench.ErrInsufficientData):
			a.log.Warn("no estimate", "strategy", s, "err", err)
			view.Results = append(view.Results, report.FailedEstimate(s, err))
			continue
		case err != nil:
			return fmt.Errorf("%s: %w", s, err)
		}

		a.log.Debug("estimate",
			"strategy", s,
			"hurst", res.Exponent,
			"r_squared", res.RSquared,
			"points", len(res.Points),
			"discarded", res.Discarded)
		view.Results = append(view.Results, report.NewEstimate(res, a.cfg.Output.Precision))
		succeeded++
	}

	if err := a.render(cmd, output, view); err != nil {
		return err
	}
	if succeeded == 0 {
		return fmt.Errorf("no strategy produced an estimate: %w", scalebench.ErrInsufficientData)
	}
	return nil
}
