package scalebench

import (
	"errors"
	"math"
	"testing"
)

func TestDimensionFromHurst(t *testing.T) {
	tests := []struct {
		h, want float64
	}{
		{0.5, 1.5},
		{0.3, 1.7},
		{1.0, 1.0},
		{0.0, 2.0},
	}
	for _, tt := range tests {
		if got := DimensionFromHurst(tt.h); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("DimensionFromHurst(%g) = %g, want %g", tt.h, got, tt.want)
		}
	}
}

func TestClassifyDimension(t *testing.T) {
	tests := []struct {
		d    float64
		want Band
	}{
		{1.0, BandPersistent},
		{1.49, BandPersistent},
		{1.5, BandSlightlyPersistent},
		{1.59, BandSlightlyPersistent},
		{1.6, BandEdgeOfChaos},
		{1.7, BandEdgeOfChaos},
		{1.79, BandEdgeOfChaos},
		{1.8, BandSlightlyAnti},
		{1.89, BandSlightlyAnti},
		{1.9, BandAntiPersistent},
		{2.5, BandAntiPersistent},
		{math.Inf(-1), BandPersistent},
		{math.NaN(), BandAntiPersistent},
	}

	for _, tt := range tests {
		if got := ClassifyDimension(tt.d); got != tt.want {
			t.Errorf("ClassifyDimension(%g) = %s, want %s", tt.d, got, tt.want)
		}
	}
}

// TestDimensionBands_Contiguous verifies the bands are ordered, non-overlapping and
// cover the whole line.
func TestDimensionBands_Contiguous(t *testing.T) {
	for i := 1; i < len(dimensionBands); i++ {
		if dimensionBands[i].upper <= dimensionBands[i-1].upper {
			t.Errorf("Band %s does not start after %s", dimensionBands[i].band, dimensionBands[i-1].band)
		}
	}
	if last := dimensionBands[len(dimensionBands)-1]; !math.IsInf(last.upper, 1) {
		t.Errorf("Last band must be unbounded, got upper %g", last.upper)
	}

	for _, e := range dimensionBands {
		if e.band.Interpretation() == "Unknown" {
			t.Errorf("Band %s has no interpretation", e.band)
		}
	}
	if Band("OTHER").Interpretation() != "Unknown" {
		t.Error("Unlisted band should be Unknown")
	}
}

func TestNewDimensionResult(t *testing.T) {
	match := NewDimensionResult(HurstResult{Exponent: 0.3})
	if !match.MatchesPrediction {
		t.Errorf("D = %.2f should match %.1f", match.Dimension, PredictedDimension)
	}
	if match.Band != BandEdgeOfChaos {
		t.Errorf("Expected %s, got %s", BandEdgeOfChaos, match.Band)
	}
	if match.Interpretation != BandEdgeOfChaos.Interpretation() {
		t.Errorf("Interpretation mismatch: %q", match.Interpretation)
	}

	walk := NewDimensionResult(HurstResult{Exponent: 0.5})
	if walk.MatchesPrediction {
		t.Errorf("D = %.2f should not match %.1f", walk.Dimension, PredictedDimension)
	}
	if dev := DeviationFromPrediction(walk.Dimension); math.Abs(dev-0.2) > 1e-12 {
		t.Errorf("Deviation: expected 0.2, got %g", dev)
	}

	t.Logf("✓ H=0.3 → D=%.2f %s; H=0.5 → D=%.2f %s", match.Dimension, match.Band, walk.Dimension, walk.Band)
}

func TestEstimateDimension(t *testing.T) {
	walk := RandomWalk(NewSource(13), 4000, 0)

	dim, err := EstimateDimension(walk, VarianceOfIncrements, DefaultConfig())
	if err != nil {
		t.Fatalf("EstimateDimension failed: %v", err)
	}
	if math.Abs(dim.Dimension-1.5) > 0.1 {
		t.Errorf("Random walk: expected D ≈ 1.5, got %.4f", dim.Dimension)
	}
	if math.Abs(dim.Dimension-(2-dim.Hurst.Exponent)) > 1e-12 {
		t.Errorf("D must equal 2 − H")
	}

	_, err = EstimateDimension(walk[:10], VarianceOfIncrements, DefaultConfig())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Short series: expected ErrInsufficientData, got %v", err)
	}
}
