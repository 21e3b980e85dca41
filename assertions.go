package scalebench

import (
	"math"
	"testing"
)

// AssertionConfig contains thresholds for scaling-exponent properties.
type AssertionConfig struct {
	// Absolute tolerance around an expected Hurst exponent
	Tolerance float64

	// Minimum R² for the log-log fit
	MinRSquared float64

	// Estimator settings used by every assertion
	Estimator Config
}

// DefaultAssertionConfig returns thresholds suited to series of a few thousand samples.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		Estimator:   DefaultConfig(),
		Tolerance:   0.1, // ±0.1 around the expected H
		MinRSquared: 0.9, // 90% of log-log variance explained
	}
}

func mustEstimate(t *testing.T, series []float64, s Strategy, cfg AssertionConfig) HurstResult {
	t.Helper()

	res, err := EstimateHurst(series, s, cfg.Estimator)
	if err != nil {
		t.Fatalf("Failed to estimate Hurst exponent (%s): %v", s, err)
	}
	return res
}

// AssertHurst verifies the estimated exponent lies within Tolerance of want.
//
// Mathematical property:
//
//	|Ĥ − H| ≤ Tolerance
func AssertHurst(t *testing.T, series []float64, s Strategy, want float64, cfg AssertionConfig) HurstResult {
	t.Helper()

	res := mustEstimate(t, series, s, cfg)
	if math.Abs(res.Exponent-want) > cfg.Tolerance {
		t.Errorf("Hurst exponent off: %s H = %.4f (want %.2f ± %.2f)",
			s, res.Exponent, want, cfg.Tolerance)
		return res
	}

	t.Logf("✓ %s H = %.4f (want %.2f ± %.2f, R² = %.4f)",
		s, res.Exponent, want, cfg.Tolerance, res.RSquared)
	return res
}

// AssertPersistent verifies the series trends: increments are positively correlated.
//
// Mathematical property:
//
//	Ĥ > 0.5 + Tolerance/2
func AssertPersistent(t *testing.T, series []float64, s Strategy, cfg AssertionConfig) HurstResult {
	t.Helper()

	res := mustEstimate(t, series, s, cfg)
	threshold := 0.5 + cfg.Tolerance/2
	if res.Exponent <= threshold {
		t.Errorf("Series not persistent: %s H = %.4f (must exceed %.3f)\n"+
			"Increments look uncorrelated or mean-reverting.",
			s, res.Exponent, threshold)
		return res
	}

	t.Logf("✓ Persistent: %s H = %.4f > %.3f", s, res.Exponent, threshold)
	return res
}

// AssertAntiPersistent verifies the series mean-reverts.
//
// Mathematical property:
//
//	Ĥ < 0.5 − Tolerance/2
func AssertAntiPersistent(t *testing.T, series []float64, s Strategy, cfg AssertionConfig) HurstResult {
	t.Helper()

	res := mustEstimate(t, series, s, cfg)
	threshold := 0.5 - cfg.Tolerance/2
	if res.Exponent >= threshold {
		t.Errorf("Series not anti-persistent: %s H = %.4f (must be below %.3f)",
			s, res.Exponent, threshold)
		return res
	}

	t.Logf("✓ Anti-persistent: %s H = %.4f < %.3f", s, res.Exponent, threshold)
	return res
}

// AssertGoodFit verifies the scaling law explains the data: the log-log points lie
// close to a straight line.
func AssertGoodFit(t *testing.T, series []float64, s Strategy, cfg AssertionConfig) HurstResult {
	t.Helper()

	res := mustEstimate(t, series, s, cfg)
	if res.RSquared < cfg.MinRSquared {
		t.Errorf("Poor scaling fit: %s R² = %.4f (min: %.4f)\n"+
			"No single power law across window sizes. Check for regime changes.",
			s, res.RSquared, cfg.MinRSquared)
		return res
	}

	t.Logf("✓ Good fit: %s R² = %.4f (%d points)", s, res.RSquared, len(res.Points))
	return res
}

// PrintAnalysis outputs every strategy's estimate and the derived dimension to the test log.
func PrintAnalysis(t *testing.T, series []float64) {
	t.Helper()

	results, errs := EstimateAll(series, DefaultConfig())

	t.Logf("\n=== Scaling Analysis (N = %d) ===", len(series))
	t.Logf("  Strategy  H        D        R²       Points  Band")
	t.Logf("  --------  -------  -------  -------  ------  ----")
	for _, s := range Strategies() {
		if err, failed := errs[s]; failed {
			t.Logf("  %-8s  %v", s, err)
			continue
		}
		dim := NewDimensionResult(results[s])
		t.Logf("  %-8s  %7.4f  %7.4f  %7.4f  %6d  %s",
			s, dim.Hurst.Exponent, dim.Dimension, dim.Hurst.RSquared, len(dim.Hurst.Points), dim.Band)
	}

	t.Logf("\nInterpretation:")
	for _, s := range Strategies() {
		res, ok := results[s]
		if !ok {
			continue
		}
		switch h := res.Exponent; {
		case h > 0.55:
			t.Logf("  ✓ %s: persistent (H > 0.55) - trends continue", s)
		case h < 0.45:
			t.Logf("  ✓ %s: anti-persistent (H < 0.45) - moves revert", s)
		default:
			t.Logf("  ⚠ %s: near random walk (0.45 ≤ H ≤ 0.55)", s)
		}
		if res.RSquared < 0.9 {
			t.Logf("  ✗ %s: poor fit (R² < 0.90) - scaling may not be a single power law", s)
		}
	}
}
