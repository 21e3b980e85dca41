package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexshd/scalebench"
	"github.com/alexshd/scalebench/internal/report"
	"github.com/alexshd/scalebench/internal/seriesio"
)

func newConcentrationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "concentration",
		Short: "Measure how a power-law score population concentrates weight",
		Long: `Measure the share of total weight held by the top 0.1%, bottom 90% and
top 20% of scores, the Gini coefficient and the Hill tail index.

Scores come from --input when given, otherwise from a seeded Pareto draw.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			input, _ := flags.GetString("input")
			output, _ := flags.GetString("output")

			var scores []float64
			if input != "" {
				var err error
				scores, err = seriesio.ReadInput(input, cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read scores: %w", err)
				}
			} else {
				exp := a.cfg.Experiment
				count, alpha, scale, seed := exp.ScoreCount, exp.ScoreAlpha, exp.ScoreScale, exp.Seed
				if flags.Changed("count") {
					count, _ = flags.GetInt("count")
				}
				if flags.Changed("alpha") {
					alpha, _ = flags.GetFloat64("alpha")
				}
				if flags.Changed("scale") {
					scale, _ = flags.GetFloat64("scale")
				}
				if flags.Changed("seed") {
					seed, _ = flags.GetUint64("seed")
				}
				if count <= 0 || alpha <= 0 || scale <= 0 {
					return fmt.Errorf("count, alpha and scale must be positive")
				}
				scores = scalebench.ParetoScores(scalebench.NewSource(seed), count, alpha, scale)
			}

			stats, err := scalebench.AnalyzeConcentration(scores)
			if err != nil {
				return err
			}
			a.log.Debug("concentration", "count", stats.Count, "gini", stats.Gini, "power_law", stats.IsPowerLaw)

			return a.render(cmd, output, report.NewConcentration(stats, a.cfg.Output.Precision))
		},
	}

	cmd.Flags().StringP("input", "i", "", "Score file; overrides the Pareto draw")
	cmd.Flags().Int("count", 0, "Number of Pareto scores")
	cmd.Flags().Float64("alpha", 0, "Pareto shape")
	cmd.Flags().Float64("scale", 0, "Score multiplier")
	cmd.Flags().Uint64("seed", 0, "Random seed")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")

	return cmd
}
