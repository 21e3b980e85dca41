// Package report renders estimation results as JSON, YAML or aligned text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexshd/scalebench"
)

// Format selects the rendering.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	Text Format = "text"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case JSON, YAML, Text:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json, yaml or text)", name)
	}
}

// Texter is implemented by views that have a tabular text form.
type Texter interface {
	WriteText(w io.Writer) error
}

// Render writes v in the given format.
func Render(w io.Writer, format Format, v Texter) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case Text:
		return v.WriteText(w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Round rounds x to the given number of decimal places. NaN and ±Inf pass through.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || places < 0 {
		return x
	}
	p := math.Pow10(places)
	return math.Round(x*p) / p
}

// Point is a rounded scaling-curve sample.
type Point struct {
	Size  int     `json:"size" yaml:"size"`
	Value float64 `json:"value" yaml:"value"`
}

// Estimate is the rendered form of one strategy's result.
//
// The numeric fields are nil only for a failed estimate, so a real zero (a clamped
// R² of 0, an H that rounds to 0) is still written.
type Estimate struct {
	Strategy  string   `json:"strategy" yaml:"strategy"`
	Hurst     *float64 `json:"hurst,omitempty" yaml:"hurst,omitempty"`
	RSquared  *float64 `json:"r_squared,omitempty" yaml:"r_squared,omitempty"`
	Dimension *float64 `json:"dimension,omitempty" yaml:"dimension,omitempty"`
	Band      string   `json:"band,omitempty" yaml:"band,omitempty"`
	Meaning   string   `json:"interpretation,omitempty" yaml:"interpretation,omitempty"`
	Points    []Point  `json:"points,omitempty" yaml:"points,omitempty"`
	Discarded int      `json:"discarded,omitempty" yaml:"discarded,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func rounded(x float64, places int) *float64 {
	r := Round(x, places)
	return &r
}

// number formats an optional value, "-" when absent.
func number(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// Estimates is the rendered form of an estimate or dimension command.
type Estimates struct {
	Length  int        `json:"length" yaml:"length"`
	Results []Estimate `json:"results" yaml:"results"`
}

// NewEstimate converts a library result, rounding to places decimals.
func NewEstimate(res scalebench.HurstResult, places int) Estimate {
	dim := scalebench.NewDimensionResult(res)
	points := make([]Point, len(res.Points))
	for i, p := range res.Points {
		points[i] = Point{Size: p.Size, Value: Round(p.Value, places)}
	}
	return Estimate{
		Strategy:  res.Strategy.String(),
		Hurst:     rounded(res.Exponent, places),
		RSquared:  rounded(res.RSquared, places),
		Dimension: rounded(dim.Dimension, places),
		Band:      dim.Band.String(),
		Meaning:   dim.Interpretation,
		Points:    points,
		Discarded: res.Discarded,
	}
}

// FailedEstimate records a strategy that produced no estimate.
func FailedEstimate(s scalebench.Strategy, err error) Estimate {
	return Estimate{Strategy: s.String(), Error: err.Error()}
}

// WriteText renders one row per strategy.
func (e Estimates) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "N = %d\n", e.Length)
	fmt.Fprintln(tw, "STRATEGY\tH\tD\tR²\tPOINTS\tBAND\tINTERPRETATION")
	for _, r := range e.Results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%s\n", r.Strategy, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			r.Strategy, number(r.Hurst), number(r.Dimension), number(r.RSquared), len(r.Points), r.Band, r.Meaning)
	}
	return tw.Flush()
}

// Concentration is the rendered form of a concentration analysis.
type Concentration struct {
	Count               int     `json:"count" yaml:"count"`
	Top01Share          float64 `json:"top_0_1_share" yaml:"top_0_1_share"`
	Bottom90Share       float64 `json:"bottom_90_share" yaml:"bottom_90_share"`
	Top20Share          float64 `json:"top_20_share" yaml:"top_20_share"`
	ParetoRatio         float64 `json:"pareto_ratio" yaml:"pareto_ratio"`
	Gini                float64 `json:"gini" yaml:"gini"`
	GiniProxy           float64 `json:"gini_proxy" yaml:"gini_proxy"`
	TailDivergenceRatio float64 `json:"tail_divergence_ratio" yaml:"tail_divergence_ratio"`
	TailIndex           float64 `json:"tail_index" yaml:"tail_index"`
	IsPowerLaw          bool    `json:"is_power_law" yaml:"is_power_law"`
}

// NewConcentration converts library stats, rounding to places decimals.
func NewConcentration(s scalebench.ConcentrationStats, places int) Concentration {
	return Concentration{
		Count:               s.Count,
		Top01Share:          Round(s.Top01Share, places),
		Bottom90Share:       Round(s.Bottom90Share, places),
		Top20Share:          Round(s.Top20Share, places),
		ParetoRatio:         Round(s.ParetoRatio, places),
		Gini:                Round(s.Gini, places),
		GiniProxy:           Round(s.GiniProxy, places),
		TailDivergenceRatio: Round(s.TailDivergenceRatio, places),
		TailIndex:           Round(s.TailIndex, places),
		IsPowerLaw:          s.IsPowerLaw,
	}
}

// WriteText renders the shares as key/value lines.
func (c Concentration) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Scores\t%d\n", c.Count)
	fmt.Fprintf(tw, "Top 0.1%% share\t%g%%\n", c.Top01Share)
	fmt.Fprintf(tw, "Bottom 90%% share\t%g%%\n", c.Bottom90Share)
	fmt.Fprintf(tw, "Top 20%% share\t%g%%\n", c.Top20Share)
	fmt.Fprintf(tw, "Pareto ratio\t%g\n", c.ParetoRatio)
	fmt.Fprintf(tw, "Gini\t%g\n", c.Gini)
	fmt.Fprintf(tw, "Gini proxy (1 − 2·bottom)\t%g\n", c.GiniProxy)
	fmt.Fprintf(tw, "P99/P50\t%g\n", c.TailDivergenceRatio)
	fmt.Fprintf(tw, "Tail index α\t%g\n", c.TailIndex)
	fmt.Fprintf(tw, "Power law\t%t\n", c.IsPowerLaw)
	return tw.Flush()
}

// Control is a rendered experiment control.
type Control struct {
	Name              string  `json:"name" yaml:"name"`
	Hurst             float64 `json:"hurst" yaml:"hurst"`
	Dimension         float64 `json:"dimension" yaml:"dimension"`
	RSquared          float64 `json:"r_squared" yaml:"r_squared"`
	ExpectedDimension float64 `json:"expected_dimension" yaml:"expected_dimension"`
}

// Experiment is the rendered form of an experiment report.
type Experiment struct {
	RunID         string        `json:"run_id" yaml:"run_id"`
	StartedAt     time.Time     `json:"started_at" yaml:"started_at"`
	DurationMS    int64         `json:"duration_ms" yaml:"duration_ms"`
	Seed          uint64        `json:"seed" yaml:"seed"`
	Length        int           `json:"length" yaml:"length"`
	DFA           Estimate      `json:"dfa" yaml:"dfa"`
	Variance      Estimate      `json:"variance" yaml:"variance"`
	Average       float64       `json:"average_dimension" yaml:"average_dimension"`
	Prediction    float64       `json:"prediction" yaml:"prediction"`
	Deviation     float64       `json:"deviation" yaml:"deviation"`
	Band          string        `json:"band" yaml:"band"`
	Matches       bool          `json:"matches_prediction" yaml:"matches_prediction"`
	Controls      []Control     `json:"controls" yaml:"controls"`
	Concentration Concentration `json:"concentration" yaml:"concentration"`
}

// NewExperiment converts an experiment report, rounding to places decimals.
func NewExperiment(r scalebench.ExperimentReport, places int) Experiment {
	controls := make([]Control, len(r.Controls))
	for i, c := range r.Controls {
		controls[i] = Control{
			Name:              c.Name,
			Hurst:             Round(c.Hurst, places),
			Dimension:         Round(c.Dimension, places),
			RSquared:          Round(c.RSquared, places),
			ExpectedDimension: Round(c.ExpectedDimension, places),
		}
	}

	return Experiment{
		RunID:         r.RunID,
		StartedAt:     r.StartedAt.UTC(),
		DurationMS:    r.Duration.Milliseconds(),
		Seed:          r.Seed,
		Length:        r.Length,
		DFA:           NewEstimate(r.DFA.Hurst, places),
		Variance:      NewEstimate(r.Variance.Hurst, places),
		Average:       Round(r.Average, places),
		Prediction:    r.Prediction,
		Deviation:     Round(r.Deviation, places),
		Band:          r.Band.String(),
		Matches:       r.Deviation < scalebench.PredictionTolerance,
		Controls:      controls,
		Concentration: NewConcentration(r.Power, places),
	}
}

// WriteText renders the experiment as sections.
func (e Experiment) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Run\t%s\n", e.RunID)
	fmt.Fprintf(tw, "Seed\t%d\n", e.Seed)
	fmt.Fprintf(tw, "Length\t%d\n", e.Length)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "ATTENTION SERIES\tH\tD\tR²\tBAND")
	for _, r := range []Estimate{e.DFA, e.Variance} {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Strategy, number(r.Hurst), number(r.Dimension), number(r.RSquared), r.Band)
	}
	fmt.Fprintf(tw, "average\t\t%g\t\t%s\n", e.Average, e.Band)
	fmt.Fprintf(tw, "prediction\t\t%g\t\tdeviation %g (match: %t)\n", e.Prediction, e.Deviation, e.Matches)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "CONTROL\tH\tD\tR²\tEXPECTED D")
	for _, c := range e.Controls {
		fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%g\n", c.Name, c.Hurst, c.Dimension, c.RSquared, c.ExpectedDimension)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	return e.Concentration.WriteText(w)
}
