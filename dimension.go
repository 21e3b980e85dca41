package scalebench

import (
	"fmt"
	"math"
)

// PredictedDimension is the hypothesised fractal dimension of attention dynamics.
// Rivers, lungs and lightning all sit near D ≈ 1.7.
const PredictedDimension = 1.7

// PredictionTolerance is the half-width of the band around PredictedDimension
// counted as a match.
const PredictionTolerance = 0.15

// Band is a fixed classification range of the fractal dimension D = 2 − H.
type Band string

const (
	BandPersistent         Band = "PERSISTENT"          // D < 1.5: trending, long memory
	BandSlightlyPersistent Band = "SLIGHTLY_PERSISTENT" // 1.5 ≤ D < 1.6
	BandEdgeOfChaos        Band = "EDGE_OF_CHAOS"       // 1.6 ≤ D < 1.8: optimal complexity
	BandSlightlyAnti       Band = "SLIGHTLY_ANTI"       // 1.8 ≤ D < 1.9
	BandAntiPersistent     Band = "ANTI_PERSISTENT"     // D ≥ 1.9: mean-reverting
)

// bandEdge maps the exclusive upper edge of each band; the last band is unbounded.
type bandEdge struct {
	upper float64
	band  Band
}

// dimensionBands are contiguous and ordered: each band starts where the previous ends.
var dimensionBands = []bandEdge{
	{upper: 1.5, band: BandPersistent},
	{upper: 1.6, band: BandSlightlyPersistent},
	{upper: 1.8, band: BandEdgeOfChaos},
	{upper: 1.9, band: BandSlightlyAnti},
	{upper: math.Inf(1), band: BandAntiPersistent},
}

var bandInterpretations = map[Band]string{
	BandPersistent:         "Persistent/trending (memory effects)",
	BandSlightlyPersistent: "Slightly persistent",
	BandEdgeOfChaos:        "Edge of chaos (optimal complexity)",
	BandSlightlyAnti:       "Slightly anti-persistent",
	BandAntiPersistent:     "Anti-persistent/mean-reverting",
}

func (b Band) String() string { return string(b) }

// Interpretation returns the human-readable description of the band.
func (b Band) Interpretation() string {
	if s, ok := bandInterpretations[b]; ok {
		return s
	}
	return "Unknown"
}

// DimensionFromHurst converts a Hurst exponent into the fractal dimension of a
// one-dimensional series graph:
//
//	D = 2 − H
//
// H = 0.5 (uncorrelated increments) gives D = 1.5; persistence lowers D.
func DimensionFromHurst(h float64) float64 {
	return 2 - h
}

// ClassifyDimension places D into its band. NaN falls into the last band.
func ClassifyDimension(d float64) Band {
	for _, e := range dimensionBands {
		if d < e.upper {
			return e.band
		}
	}
	return BandAntiPersistent
}

// DimensionResult wraps a Hurst estimate with its dimension and classification.
type DimensionResult struct {
	Hurst             HurstResult
	Dimension         float64
	Band              Band
	Interpretation    string
	MatchesPrediction bool // |D − PredictedDimension| < PredictionTolerance
}

// NewDimensionResult derives the dimension view of an existing estimate.
func NewDimensionResult(h HurstResult) DimensionResult {
	d := DimensionFromHurst(h.Exponent)
	band := ClassifyDimension(d)
	return DimensionResult{
		Hurst:             h,
		Dimension:         d,
		Band:              band,
		Interpretation:    band.Interpretation(),
		MatchesPrediction: math.Abs(d-PredictedDimension) < PredictionTolerance,
	}
}

// EstimateDimension estimates H with the given strategy and converts it to D.
// Errors from EstimateHurst (including ErrInsufficientData) pass through wrapped.
func EstimateDimension(series []float64, strategy Strategy, cfg Config) (DimensionResult, error) {
	h, err := EstimateHurst(series, strategy, cfg)
	if err != nil {
		return DimensionResult{}, fmt.Errorf("dimension estimate: %w", err)
	}
	return NewDimensionResult(h), nil
}

// DeviationFromPrediction returns |D − PredictedDimension|.
func DeviationFromPrediction(d float64) float64 {
	return math.Abs(d - PredictedDimension)
}
