// Package scalebench estimates scaling exponents of time series.
//
// # Overview
//
// scalebench measures how the fluctuations of a series grow with the observation
// window. If a statistic F of windows of size n scales as
//
//	F(n) ∝ n^s
//
// the slope s on a log-log plot reveals the Hurst exponent H and with it the fractal
// dimension of the series graph, D = 2 − H.
//
// # Architecture
//
// The package components:
//
//   - windows       - Log-spaced window sizes
//   - regression    - Log-log OLS with R²
//   - strategy      - Per-window statistics (DFA, variance of increments, R/S)
//   - estimator     - The shared estimation skeleton
//   - dimension     - D = 2 − H and classification bands
//   - generator     - Seeded noise, walks, fractional Gaussian noise, attention series
//   - concentration - Power-law concentration of score populations
//   - experiment    - The fractal-dimension experiment with controls
//   - assertions    - Test helpers for scaling properties
//
// # Quick Start
//
//	res, err := scalebench.EstimateHurst(series, scalebench.DetrendedFluctuation, scalebench.DefaultConfig())
//	if errors.Is(err, scalebench.ErrInsufficientData) {
//	    // Series too short for a stable regression
//	}
//
//	fmt.Printf("H = %.3f (R² = %.3f)\n", res.Exponent, res.RSquared)
//
//	dim := scalebench.NewDimensionResult(res)
//	fmt.Printf("D = %.3f %s\n", dim.Dimension, dim.Band)
//
// # Strategies
//
// All three strategies share one skeleton: window sizes, per-size aggregate,
// log-log regression. Only the aggregate and the slope-to-H mapping differ.
//
//   - DetrendedFluctuation: RMS of linearly detrended profile windows.  H = s
//   - VarianceOfIncrements: variance of x[t+lag] − x[t].               H = s/2
//   - RescaledRange:        mean R/S of non-overlapping windows.         H = s
//
// DFA expects a noise-like input (it integrates the series itself); the variance
// strategy expects a path (it differences the series itself).
//
// # Interpretation
//
//   - H ≈ 0.5: uncorrelated increments (random walk), D ≈ 1.5
//   - H > 0.5: persistent, trends continue, D < 1.5
//   - H < 0.5: anti-persistent, moves revert, D > 1.5
//
// # Testing
//
// Use assertions to validate scaling properties:
//
//	func TestTrendFollower(t *testing.T) {
//	    series := loadPrices(t)
//
//	    cfg := scalebench.DefaultAssertionConfig()
//	    scalebench.AssertPersistent(t, series, scalebench.VarianceOfIncrements, cfg)
//	    scalebench.AssertGoodFit(t, series, scalebench.VarianceOfIncrements, cfg)
//	}
package scalebench
