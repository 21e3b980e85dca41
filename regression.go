package scalebench

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// FluctuationPoint is one (window size, aggregate statistic) sample of the scaling curve.
type FluctuationPoint struct {
	Size  int     // Window size or lag
	Value float64 // Aggregate statistic at this size (mean RMS, variance, mean R/S)
}

// RegressionResult is the ordinary least-squares fit of the scaling curve in log-log space.
type RegressionResult struct {
	Slope     float64 // d ln(value) / d ln(size)
	Intercept float64 // ln(value) at size = 1
	RSquared  float64 // Squared Pearson correlation (1.0 = perfect power law)
	N         int     // Number of points in the fit
}

// FitLogLog regresses ln(Value) on ln(Size).
//
// A power law F(n) = c·n^s becomes a straight line after taking logarithms:
//
//	ln F(n) = ln c + s·ln n
//
// so the slope s is the scaling exponent and R² measures how well a single power
// law explains the points.
//
// Every point must have Size ≥ 1 and a finite Value > 0; callers filter degenerate
// aggregates before fitting. R² is clamped to [0, 1] and reported as 0 when the
// correlation is undefined (all values identical).
func FitLogLog(points []FluctuationPoint) (RegressionResult, error) {
	if len(points) < 2 {
		return RegressionResult{}, fmt.Errorf("need at least 2 points, got %d", len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if p.Size < 1 || !(p.Value > 0) || math.IsInf(p.Value, 0) {
			return RegressionResult{}, fmt.Errorf("point %d (size=%d, value=%g) is not log-compatible",
				i, p.Size, p.Value)
		}
		xs[i] = math.Log(float64(p.Size))
		ys[i] = math.Log(p.Value)
	}

	if stat.Variance(xs, nil) == 0 {
		return RegressionResult{}, fmt.Errorf("all %d points share size %d", len(points), points[0].Size)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	r := stat.Correlation(xs, ys, nil)
	rSquared := r * r
	switch {
	case math.IsNaN(rSquared):
		rSquared = 0
	case rSquared > 1:
		rSquared = 1
	}

	return RegressionResult{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
		N:         len(points),
	}, nil
}

// Predict returns the fitted aggregate value at the given size.
func (r RegressionResult) Predict(size int) float64 {
	if size < 1 {
		return math.NaN()
	}
	return math.Exp(r.Intercept + r.Slope*math.Log(float64(size)))
}
