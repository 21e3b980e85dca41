package scalebench

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// NewSource returns a deterministic random source for the generators below.
// Every generator takes its source explicitly; nothing reads global random state.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WhiteNoise returns n independent standard-normal samples (H = 0.5 as a noise).
func WhiteNoise(rng *rand.Rand, n int) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out
}

// RandomWalk returns the cumulative sum of n standard-normal steps plus a constant drift.
// drift = 0 gives Brownian motion (Variance-of-Increments H ≈ 0.5).
func RandomWalk(rng *rand.Rand, n int, drift float64) []float64 {
	steps := WhiteNoise(rng, n)
	if drift != 0 {
		floats.AddConst(drift, steps)
	}
	return floats.CumSum(make([]float64, len(steps)), steps)
}

// FractionalNoise returns n samples of unit-variance fractional Gaussian noise with
// Hurst exponent h ∈ (0, 1), generated exactly with Hosking's method.
//
// The autocovariance of fGn is
//
//	γ(k) = ½(|k+1|^{2H} − 2|k|^{2H} + |k−1|^{2H})
//
// and each sample is drawn from its conditional distribution given the past, with
// the conditional mean and variance updated by the Durbin–Levinson recursion.
// Cost is O(n²) time and O(n) memory.
//
// h = 0.5 reduces to white noise; h > 0.5 gives persistent, h < 0.5 anti-persistent noise.
func FractionalNoise(rng *rand.Rand, n int, h float64) ([]float64, error) {
	if !(h > 0 && h < 1) {
		return nil, fmt.Errorf("hurst exponent must be in (0, 1), got %g", h)
	}
	if n <= 0 {
		return nil, nil
	}

	gamma := make([]float64, n)
	twoH := 2 * h
	for k := range gamma {
		fk := float64(k)
		gamma[k] = 0.5 * (math.Pow(fk+1, twoH) - 2*math.Pow(fk, twoH) + math.Pow(math.Abs(fk-1), twoH))
	}

	x := make([]float64, n)
	x[0] = rng.NormFloat64()

	// phi[j] holds φ_{t,j+1}: the weight of x[t-1-j] in the conditional mean of x[t].
	phi := make([]float64, n)
	prev := make([]float64, n)
	variance := gamma[0]

	for t := 1; t < n; t++ {
		num := gamma[t]
		for j := 0; j < t-1; j++ {
			num -= prev[j] * gamma[t-1-j]
		}
		reflection := num / variance

		for j := 0; j < t-1; j++ {
			phi[j] = prev[j] - reflection*prev[t-2-j]
		}
		phi[t-1] = reflection
		variance *= 1 - reflection*reflection

		var mean float64
		for j := 0; j < t; j++ {
			mean += phi[j] * x[t-1-j]
		}
		x[t] = mean + math.Sqrt(variance)*rng.NormFloat64()

		phi, prev = prev, phi
	}

	return x, nil
}

// FractionalBrownian returns the cumulative sum of FractionalNoise: a path whose
// increments have Hurst exponent h.
func FractionalBrownian(rng *rand.Rand, n int, h float64) ([]float64, error) {
	noise, err := FractionalNoise(rng, n, h)
	if err != nil {
		return nil, err
	}
	return floats.CumSum(make([]float64, len(noise)), noise), nil
}

// AttentionConfig shapes the synthetic attention series.
type AttentionConfig struct {
	Baseline   float64 // Level the series decays toward
	DecayRate  float64 // Fraction of the excess over baseline lost per step
	BurstRate  float64 // Base burst probability per step
	BurstAlpha float64 // Pareto shape of burst sizes
	BurstScale float64 // Multiplier of burst sizes
	NoiseSigma float64 // Std-dev of Gaussian background noise
	Floor      float64 // Minimum value of the series
}

// DefaultAttentionConfig returns the parameters used by the fractal-dimension experiment.
func DefaultAttentionConfig() AttentionConfig {
	return AttentionConfig{
		Baseline:   10,
		DecayRate:  0.05,
		BurstRate:  0.03,
		BurstAlpha: 1.5,
		BurstScale: 20,
		NoiseSigma: 0.5,
		Floor:      1,
	}
}

// AttentionSeries generates an attention time series: exponential decay toward a
// baseline, interrupted by heavy-tailed bursts.
//
//	x_i = B + (x_{i−1} − B)(1 − decay)
//	x_i += burst  with probability rate·(1 + B/(x_{i−1} + 1)),  burst ~ Lomax(α)·scale
//	x_i += N(0, σ²)
//	x_i  = max(floor, x_i)
//
// Bursts are more likely when attention is low. x_0 = 0.
func AttentionSeries(rng *rand.Rand, n int, cfg AttentionConfig) []float64 {
	if n <= 0 {
		return nil
	}

	burst := distuv.Pareto{Xm: 1, Alpha: cfg.BurstAlpha, Src: rng}
	series := make([]float64, n)

	for i := 1; i < n; i++ {
		prev := series[i-1]
		x := cfg.Baseline + (prev-cfg.Baseline)*(1-cfg.DecayRate)

		burstProb := cfg.BurstRate * (1 + cfg.Baseline/(prev+1))
		if rng.Float64() < burstProb {
			x += (burst.Rand() - 1) * cfg.BurstScale
		}

		x += rng.NormFloat64() * cfg.NoiseSigma
		series[i] = math.Max(cfg.Floor, x)
	}

	return series
}

// ParetoScores draws n Lomax (Pareto II) samples with shape alpha, scaled by scale.
// Shape 1.5 has finite mean and infinite variance.
func ParetoScores(rng *rand.Rand, n int, alpha, scale float64) []float64 {
	if n <= 0 {
		return nil
	}
	dist := distuv.Pareto{Xm: 1, Alpha: alpha, Src: rng}
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = (dist.Rand() - 1) * scale
	}
	return scores
}
