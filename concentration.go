package scalebench

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/montanaflynn/stats"
)

// ErrEmptyScores is returned when a concentration analysis gets no usable scores.
var ErrEmptyScores = errors.New("no scores to analyze")

// ConcentrationStats describes how a heavy-tailed score distribution concentrates weight.
//
// THE DOMINATED TOTAL:
//
// In a Gaussian population every item holds a comparable share of the total.
// Under a power law a handful of extreme items hold most of it:
//   - Top 0.1% share ≫ 0.1%
//   - Bottom 90% share ≪ 90%
//   - Top 20% share ≥ 80% is the classic 80/20 rule (Pareto ratio ≥ 1)
//
// Weight of an item is w = s·log10(s + 1): large scores count super-linearly.
type ConcentrationStats struct {
	Count               int
	TotalWeight         float64
	Top01Share          float64 // % of weight held by scores ≥ P99.9
	Bottom90Share       float64 // % of weight held by scores ≤ P90
	Top20Share          float64 // % of weight held by scores ≥ P80
	ParetoRatio         float64 // Top20Share / 80 (1.0 = exact 80/20)
	Gini                float64 // Gini coefficient of the weights (0 = equal, 1 = one item holds all)
	GiniProxy           float64 // 1 − 2·(bottom 90% share as a fraction); coarse, can go negative
	TailDivergenceRatio float64 // P99 / P50 of the scores
	TailIndex           float64 // Hill estimate of the Pareto α over the top 1%
	IsPowerLaw          bool    // TailDivergenceRatio > 10
}

// memoryWeight is the weight assigned to a single score.
func memoryWeight(s float64) float64 {
	return s * math.Log10(s+1)
}

// AnalyzeConcentration computes concentration statistics of non-negative scores.
// Negative and non-finite scores are rejected; the input slice is not modified.
func AnalyzeConcentration(scores []float64) (ConcentrationStats, error) {
	if len(scores) == 0 {
		return ConcentrationStats{}, ErrEmptyScores
	}
	for i, s := range scores {
		if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return ConcentrationStats{}, fmt.Errorf("score %d is %g: scores must be finite and ≥ 0", i, s)
		}
	}

	data := stats.Float64Data(scores)

	weights := make([]float64, len(scores))
	for i, s := range scores {
		weights[i] = memoryWeight(s)
	}
	total, err := stats.Sum(weights)
	if err != nil {
		return ConcentrationStats{}, fmt.Errorf("total weight: %w", err)
	}
	if !(total > 0) {
		return ConcentrationStats{}, fmt.Errorf("%w: total weight is %g", ErrEmptyScores, total)
	}

	p999, err := data.Percentile(99.9)
	if err != nil {
		return ConcentrationStats{}, fmt.Errorf("P99.9: %w", err)
	}
	p90, err := data.Percentile(90)
	if err != nil {
		return ConcentrationStats{}, fmt.Errorf("P90: %w", err)
	}
	p80, err := data.Percentile(80)
	if err != nil {
		return ConcentrationStats{}, fmt.Errorf("P80: %w", err)
	}

	var top01, bottom90, top20 float64
	for i, s := range scores {
		w := weights[i]
		if s >= p999 {
			top01 += w
		}
		if s <= p90 {
			bottom90 += w
		}
		if s >= p80 {
			top20 += w
		}
	}

	top20Share := top20 / total * 100
	divergence := tailDivergence(data)

	return ConcentrationStats{
		Count:               len(scores),
		TotalWeight:         total,
		Top01Share:          top01 / total * 100,
		Bottom90Share:       bottom90 / total * 100,
		Top20Share:          top20Share,
		ParetoRatio:         top20Share / 80,
		Gini:                gini(weights),
		GiniProxy:           1 - 2*bottom90/total,
		TailDivergenceRatio: divergence,
		TailIndex:           HillTailIndex(scores, 0.01),
		IsPowerLaw:          divergence > 10,
	}, nil
}

// tailDivergence returns P99/P50, or 1 when the median is zero.
func tailDivergence(data stats.Float64Data) float64 {
	p50, err := data.Median()
	if err != nil || p50 == 0 {
		return 1.0
	}
	p99, err := data.Percentile(99)
	if err != nil {
		return 1.0
	}
	return p99 / p50
}

// gini computes the Gini coefficient of non-negative values:
//
//	G = 2·Σ i·w_(i) / (n·Σ w) − (n + 1)/n,  i = 1..n over ascending w
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum, ranked float64
	for i, v := range sorted {
		sum += v
		ranked += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}

	fn := float64(n)
	return 2*ranked/(fn*sum) - (fn+1)/fn
}

// HillTailIndex estimates the Pareto tail index α from the largest fraction of samples:
//
//	α̂ = k / Σ_{i<k} ln(x_(n−i) / x_(n−k))
//
// Smaller α means a heavier tail; α ≤ 2 implies infinite variance.
// At least 10 order statistics are used. Returns 0 when the tail is degenerate.
func HillTailIndex(samples []float64, fraction float64) float64 {
	n := len(samples)
	k := int(float64(n) * fraction)
	if k < 10 {
		k = 10
	}
	if k >= n {
		return 0
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	threshold := sorted[n-k-1]
	if !(threshold > 0) {
		return 0
	}

	var sumLog float64
	for i := 0; i < k; i++ {
		sumLog += math.Log(sorted[n-1-i] / threshold)
	}
	if sumLog == 0 {
		return 0
	}
	return float64(k) / sumLog
}
