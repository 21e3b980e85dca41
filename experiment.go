package scalebench

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExperimentConfig controls the fractal-dimension experiment.
type ExperimentConfig struct {
	Seed            uint64          // Master seed; every draw derives from it
	Length          int             // Length of every generated series
	Attention       AttentionConfig // Shape of the attention series
	Estimator       Config          // Window/regression settings for all estimates
	PersistentHurst float64         // H of the persistent control (fractional Brownian motion)
	ScoreCount      int             // Number of Pareto scores in the concentration analysis
	ScoreAlpha      float64         // Pareto shape of the scores
	ScoreScale      float64         // Multiplier of the scores
}

// DefaultExperimentConfig reproduces the reference run: n = 5000, seed 42.
func DefaultExperimentConfig() ExperimentConfig {
	return ExperimentConfig{
		Seed:            42,
		Length:          5000,
		Attention:       DefaultAttentionConfig(),
		Estimator:       DefaultConfig(),
		PersistentHurst: 0.75,
		ScoreCount:      100_000,
		ScoreAlpha:      1.5,
		ScoreScale:      2,
	}
}

// ControlResult is an estimate of a reference series with a known expected dimension.
type ControlResult struct {
	Name              string
	Hurst             float64
	Dimension         float64
	RSquared          float64
	ExpectedDimension float64
}

// ExperimentReport collects every result of one experiment run.
type ExperimentReport struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Seed       uint64
	Length     int
	DFA        DimensionResult
	Variance   DimensionResult
	Average    float64 // Mean of the DFA and variance dimensions
	Deviation  float64 // |Average − PredictedDimension|
	Band       Band    // Band of Average
	Controls   []ControlResult
	Power      ConcentrationStats
	Prediction float64
}

// Experiment seeds are derived from the master seed so each stage draws from its own
// stream and adding a stage never shifts the others.
const (
	streamAttention uint64 = iota + 1
	streamRandomWalk
	streamPersistent
	streamScores
)

// RunExperiment estimates the fractal dimension of a synthetic attention series with
// the DFA and variance strategies, compares it with random-walk and persistent
// controls, and measures the concentration of a power-law score population.
//
// The run is deterministic for a given config apart from RunID, StartedAt and Duration.
func RunExperiment(cfg ExperimentConfig) (ExperimentReport, error) {
	started := time.Now()
	report := ExperimentReport{
		RunID:      uuid.NewString(),
		StartedAt:  started,
		Seed:       cfg.Seed,
		Length:     cfg.Length,
		Prediction: PredictedDimension,
	}

	attention := AttentionSeries(NewSource(cfg.Seed+streamAttention), cfg.Length, cfg.Attention)

	dfa, err := EstimateDimension(attention, DetrendedFluctuation, cfg.Estimator)
	if err != nil {
		return report, fmt.Errorf("attention series: %w", err)
	}
	variance, err := EstimateDimension(attention, VarianceOfIncrements, cfg.Estimator)
	if err != nil {
		return report, fmt.Errorf("attention series: %w", err)
	}

	report.DFA = dfa
	report.Variance = variance
	report.Average = (dfa.Dimension + variance.Dimension) / 2
	report.Deviation = DeviationFromPrediction(report.Average)
	report.Band = ClassifyDimension(report.Average)

	walk := RandomWalk(NewSource(cfg.Seed+streamRandomWalk), cfg.Length, 0)
	walkControl, err := runControl("random walk", walk, 1.5, cfg.Estimator)
	if err != nil {
		return report, err
	}

	persistent, err := FractionalBrownian(NewSource(cfg.Seed+streamPersistent), cfg.Length, cfg.PersistentHurst)
	if err != nil {
		return report, fmt.Errorf("persistent control: %w", err)
	}
	persistentControl, err := runControl("persistent", persistent, DimensionFromHurst(cfg.PersistentHurst), cfg.Estimator)
	if err != nil {
		return report, err
	}
	report.Controls = []ControlResult{walkControl, persistentControl}

	scores := ParetoScores(NewSource(cfg.Seed+streamScores), cfg.ScoreCount, cfg.ScoreAlpha, cfg.ScoreScale)
	power, err := AnalyzeConcentration(scores)
	if err != nil {
		return report, fmt.Errorf("power law: %w", err)
	}
	report.Power = power

	report.Duration = time.Since(started)
	return report, nil
}

// runControl estimates a control series with the variance strategy.
func runControl(name string, series []float64, expected float64, cfg Config) (ControlResult, error) {
	h, err := EstimateHurst(series, VarianceOfIncrements, cfg)
	if err != nil {
		return ControlResult{}, fmt.Errorf("%s control: %w", name, err)
	}
	return ControlResult{
		Name:              name,
		Hurst:             h.Exponent,
		Dimension:         DimensionFromHurst(h.Exponent),
		RSquared:          h.RSquared,
		ExpectedDimension: expected,
	}, nil
}
