package scalebench

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInsufficientData is returned when fewer than Config.MinPoints window sizes
	// produced a usable statistic. It is the only "no estimate" outcome.
	ErrInsufficientData = errors.New("insufficient data for scaling regression")

	// ErrEmptySeries is returned for a zero-length series.
	ErrEmptySeries = errors.New("empty series")

	// ErrNonFiniteSample is returned when the series contains NaN or ±Inf.
	ErrNonFiniteSample = errors.New("series contains non-finite sample")

	// ErrUnknownStrategy is returned for a Strategy value or name that does not exist.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Config controls window-size generation and the regression acceptance rules.
type Config struct {
	MinWindow    int     // Smallest window size or lag (default: 4)
	MaxWindow    int     // Largest window size or lag (0 = strategy default, N/4)
	Candidates   int     // Log-spaced candidates between Min and Max before dedup (default: 20)
	MinPoints    int     // Minimum usable points for a regression (default: 5)
	Workers      int     // Concurrent window sizes (≤1 = sequential)
	MinAggregate float64 // Relative floor: aggregates ≤ MinAggregate·max(aggregates) are discarded (default: 1e-12)
}

// DefaultConfig returns the canonical estimator settings.
func DefaultConfig() Config {
	return Config{
		MinWindow:    4,
		MaxWindow:    0,
		Candidates:   20,
		MinPoints:    5,
		Workers:      1,
		MinAggregate: 1e-12,
	}
}

// withDefaults fills zero-valued fields so a partially populated Config behaves.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MinWindow <= 0 {
		c.MinWindow = def.MinWindow
	}
	if c.Candidates <= 0 {
		c.Candidates = def.Candidates
	}
	if c.MinPoints <= 0 {
		c.MinPoints = def.MinPoints
	}
	if c.MinPoints < 2 {
		c.MinPoints = 2 // a line needs two points
	}
	if c.MinAggregate < 0 {
		c.MinAggregate = 0
	}
	return c
}

// HurstResult is the outcome of one estimation.
type HurstResult struct {
	Strategy   Strategy
	Exponent   float64            // Hurst exponent H
	RSquared   float64            // Fit quality of the log-log regression
	Points     []FluctuationPoint // Points used in the regression, ascending by size
	Regression RegressionResult
	Discarded  int // Sizes whose statistic was missing or below the relative floor
}

// EstimateHurst estimates the Hurst exponent of series with the given strategy.
//
// The procedure is the same for every strategy:
//
//  1. Generate Candidates log-spaced window sizes in [MinWindow, MaxWindow]
//  2. Drop sizes that fit fewer than two non-overlapping windows
//  3. Compute the strategy's aggregate statistic at every remaining size
//  4. Discard aggregates that are non-finite or ≤ MinAggregate times the largest
//     aggregate (log would be invalid or dominated by round-off)
//  5. Fit ln(aggregate) = a + s·ln(size) and convert s to H
//
// Fewer than MinPoints points after step 4 yields ErrInsufficientData; a bad window
// configuration (MinWindow ≥ MaxWindow, MaxWindow < 2) collapses into the same error.
// The floor is relative, so rescaling the series by a constant leaves H unchanged.
// The input slice is never modified and the result depends only on series and cfg.
func EstimateHurst(series []float64, strategy Strategy, cfg Config) (HurstResult, error) {
	if len(series) == 0 {
		return HurstResult{}, ErrEmptySeries
	}
	for i, x := range series {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return HurstResult{}, fmt.Errorf("%w: index %d", ErrNonFiniteSample, i)
		}
	}

	measure, err := strategy.statistic()
	if err != nil {
		return HurstResult{}, err
	}

	cfg = cfg.withDefaults()
	maxWindow := cfg.MaxWindow
	if maxWindow <= 0 {
		maxWindow = measure.defaultMaxWindow(len(series))
	}

	sizes := usableSizes(WindowSizes(cfg.MinWindow, maxWindow, cfg.Candidates), len(series))
	data := measure.prepare(series)
	values, ok := aggregateSizes(measure, data, sizes, cfg.Workers)

	var peak float64
	for i, v := range values {
		if ok[i] && !math.IsInf(v, 0) && v > peak {
			peak = v
		}
	}
	floor := cfg.MinAggregate * peak

	points := make([]FluctuationPoint, 0, len(sizes))
	for i, size := range sizes {
		v := values[i]
		if !ok[i] || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v <= floor {
			continue
		}
		points = append(points, FluctuationPoint{Size: size, Value: v})
	}

	if len(points) < cfg.MinPoints {
		return HurstResult{}, fmt.Errorf("%w: %s has %d usable points of %d candidate sizes (need %d)",
			ErrInsufficientData, strategy, len(points), len(sizes), cfg.MinPoints)
	}

	reg, err := FitLogLog(points)
	if err != nil {
		return HurstResult{}, fmt.Errorf("%w: %s: %v", ErrInsufficientData, strategy, err)
	}

	return HurstResult{
		Strategy:   strategy,
		Exponent:   measure.exponent(reg.Slope),
		RSquared:   reg.RSquared,
		Points:     points,
		Regression: reg,
		Discarded:  len(sizes) - len(points),
	}, nil
}

// aggregateSizes evaluates the statistic at every size. With workers > 1 sizes are
// spread over a bounded pool; each goroutine writes only its own slot, so the
// output is identical to the sequential path.
func aggregateSizes(measure statistic, data []float64, sizes []int, workers int) ([]float64, []bool) {
	values := make([]float64, len(sizes))
	ok := make([]bool, len(sizes))

	if workers <= 1 || len(sizes) < 2 {
		for i, size := range sizes {
			values[i], ok[i] = measure.aggregate(data, size)
		}
		return values, ok
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, size := range sizes {
		g.Go(func() error {
			values[i], ok[i] = measure.aggregate(data, size)
			return nil
		})
	}
	_ = g.Wait() // aggregate never fails; insufficiency is reported through ok

	return values, ok
}

// EstimateAll runs every strategy on the same series.
//
// Strategies that fail (typically ErrInsufficientData) are reported in the error map
// and omitted from the result map; the call itself never fails.
func EstimateAll(series []float64, cfg Config) (map[Strategy]HurstResult, map[Strategy]error) {
	results := make(map[Strategy]HurstResult, 3)
	errs := make(map[Strategy]error)

	for _, s := range Strategies() {
		res, err := EstimateHurst(series, s, cfg)
		if err != nil {
			errs[s] = err
			continue
		}
		results[s] = res
	}

	return results, errs
}
