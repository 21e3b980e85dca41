package scalebench

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Strategy selects the fluctuation statistic measured at each window size.
type Strategy int

const (
	// DetrendedFluctuation integrates the series into a profile, removes a least-squares
	// line from every window and averages the residual RMS. Exponent = slope.
	DetrendedFluctuation Strategy = iota
	// VarianceOfIncrements measures Var(x[t+τ] − x[t]) directly on the series.
	// Var ~ τ^(2H), so exponent = slope / 2.
	VarianceOfIncrements
	// RescaledRange is classical R/S analysis: range of cumulative deviation divided by
	// the sample standard deviation, averaged over windows. Exponent = slope.
	RescaledRange
)

// DefaultMaxLag caps the lag range of VarianceOfIncrements when no MaxWindow is given.
// Increment variances at lags approaching N/4 rest on a handful of independent
// windows and bend the log-log line downward.
const DefaultMaxLag = 100

var strategyNames = map[Strategy]string{
	DetrendedFluctuation: "dfa",
	VarianceOfIncrements: "variance",
	RescaledRange:        "rs",
}

var strategyAliases = map[string]Strategy{
	"dfa":                    DetrendedFluctuation,
	"detrended-fluctuation":  DetrendedFluctuation,
	"variance":               VarianceOfIncrements,
	"variance-of-increments": VarianceOfIncrements,
	"var":                    VarianceOfIncrements,
	"rs":                     RescaledRange,
	"r/s":                    RescaledRange,
	"rescaled-range":         RescaledRange,
}

// String returns the short name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// MarshalText encodes the strategy by its short name.
func (s Strategy) MarshalText() ([]byte, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a strategy name accepted by ParseStrategy.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy resolves a strategy from its short or long name (case-insensitive).
func ParseStrategy(name string) (Strategy, error) {
	if s, ok := strategyAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return Strategy(-1), fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Strategies lists every supported strategy in a stable order.
func Strategies() []Strategy {
	return []Strategy{DetrendedFluctuation, VarianceOfIncrements, RescaledRange}
}

// statistic is the per-size measurement plugged into the shared regression skeleton.
// Implementations must be safe for concurrent aggregate calls on the same data.
type statistic interface {
	// prepare transforms the raw series once per estimation (never in place).
	prepare(series []float64) []float64
	// aggregate returns the statistic for one size; false when no window produced a value.
	aggregate(data []float64, size int) (float64, bool)
	// exponent converts the log-log slope into a Hurst exponent.
	exponent(slope float64) float64
	// defaultMaxWindow is the upper size bound used when Config.MaxWindow is 0.
	defaultMaxWindow(n int) int
}

func (s Strategy) statistic() (statistic, error) {
	switch s {
	case DetrendedFluctuation:
		return detrendedFluctuation{}, nil
	case VarianceOfIncrements:
		return varianceOfIncrements{}, nil
	case RescaledRange:
		return rescaledRange{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
}

type detrendedFluctuation struct{}

// prepare builds the profile: cumulative sum of the mean-centered series.
func (detrendedFluctuation) prepare(series []float64) []float64 {
	mean := stat.Mean(series, nil)
	centered := make([]float64, len(series))
	for i, x := range series {
		centered[i] = x - mean
	}
	return floats.CumSum(make([]float64, len(series)), centered)
}

func (detrendedFluctuation) aggregate(profile []float64, size int) (float64, bool) {
	windows := len(profile) / size
	if windows == 0 || size < 2 {
		return 0, false
	}

	var sum float64
	for w := 0; w < windows; w++ {
		start := w * size
		sum += detrendedRMS(profile[start : start+size])
	}
	return sum / float64(windows), true
}

func (detrendedFluctuation) exponent(slope float64) float64 { return slope }

func (detrendedFluctuation) defaultMaxWindow(n int) int { return n / 4 }

// detrendedRMS fits y = a + b·i by least squares over i = 0..n-1 and returns the RMS
// of the residuals. The abscissa is centered on (n-1)/2 so the slope and intercept
// decouple:
//
//	b = Σ(i − ī)·y_i / Σ(i − ī)²,  a = ȳ
func detrendedRMS(y []float64) float64 {
	n := len(y)
	if n < 2 {
		return 0
	}

	center := float64(n-1) / 2
	mean := stat.Mean(y, nil)

	var sxy float64
	for i, v := range y {
		sxy += (float64(i) - center) * v
	}
	sxx := float64(n) * (float64(n)*float64(n) - 1) / 12
	slope := sxy / sxx

	var ss float64
	for i, v := range y {
		r := v - mean - slope*(float64(i)-center)
		ss += r * r
	}
	return math.Sqrt(ss / float64(n))
}

type varianceOfIncrements struct{}

func (varianceOfIncrements) prepare(series []float64) []float64 { return series }

// aggregate returns the population variance of series[lag:] − series[:-lag].
func (varianceOfIncrements) aggregate(series []float64, lag int) (float64, bool) {
	if lag < 1 || lag >= len(series) {
		return 0, false
	}

	increments := make([]float64, len(series)-lag)
	floats.SubTo(increments, series[lag:], series[:len(series)-lag])
	return stat.PopVariance(increments, nil), true
}

func (varianceOfIncrements) exponent(slope float64) float64 { return slope / 2 }

func (varianceOfIncrements) defaultMaxWindow(n int) int {
	if n/4 < DefaultMaxLag {
		return n / 4
	}
	return DefaultMaxLag
}

type rescaledRange struct{}

func (rescaledRange) prepare(series []float64) []float64 { return series }

// aggregate averages R/S over the non-overlapping windows of the given size.
// Windows with zero standard deviation carry no scale and are skipped.
func (rescaledRange) aggregate(series []float64, size int) (float64, bool) {
	windows := len(series) / size
	if windows == 0 || size < 2 {
		return 0, false
	}

	cumdev := make([]float64, size)
	var sum float64
	var counted int
	for w := 0; w < windows; w++ {
		window := series[w*size : (w+1)*size]

		sd := stat.StdDev(window, nil)
		if !(sd > 0) {
			continue
		}

		mean := stat.Mean(window, nil)
		running := 0.0
		for i, x := range window {
			running += x - mean
			cumdev[i] = running
		}

		sum += amplitude(cumdev) / sd
		counted++
	}

	if counted == 0 {
		return 0, false
	}
	return sum / float64(counted), true
}

func (rescaledRange) exponent(slope float64) float64 { return slope }

func (rescaledRange) defaultMaxWindow(n int) int { return n / 4 }

// amplitude returns max − min of the values.
func amplitude(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values) - floats.Min(values)
}
