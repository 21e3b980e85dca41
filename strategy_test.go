package scalebench

import (
	"errors"
	"math"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name string
		want Strategy
	}{
		{"dfa", DetrendedFluctuation},
		{"DFA", DetrendedFluctuation},
		{"detrended-fluctuation", DetrendedFluctuation},
		{"variance", VarianceOfIncrements},
		{" var ", VarianceOfIncrements},
		{"variance-of-increments", VarianceOfIncrements},
		{"rs", RescaledRange},
		{"R/S", RescaledRange},
		{"rescaled-range", RescaledRange},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.name)
		if err != nil {
			t.Errorf("ParseStrategy(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := ParseStrategy("wavelet"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Expected ErrUnknownStrategy, got %v", err)
	}
}

func TestStrategy_TextRoundTrip(t *testing.T) {
	for _, s := range Strategies() {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) failed: %v", s, err)
		}

		var decoded Strategy
		if err := decoded.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if decoded != s {
			t.Errorf("Round trip: %v → %q → %v", s, text, decoded)
		}
	}

	if _, err := Strategy(9).MarshalText(); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Expected ErrUnknownStrategy for Strategy(9), got %v", err)
	}
	if got := Strategy(9).String(); got != "Strategy(9)" {
		t.Errorf("String() of unknown strategy = %q", got)
	}
}

// TestDetrendedRMS_Linear verifies a perfectly linear window leaves no residual.
func TestDetrendedRMS_Linear(t *testing.T) {
	y := make([]float64, 50)
	for i := range y {
		y[i] = 3 - 0.25*float64(i)
	}

	if rms := detrendedRMS(y); rms > 1e-12 {
		t.Errorf("Linear window: expected RMS ≈ 0, got %g", rms)
	}
}

// TestDetrendedRMS_Quadratic checks a hand-computed case: y = i² on i = 0, 1, 2.
//
//	fit: y = 5/3 + 2(i − 1), residuals (1/3, −2/3, 1/3), RMS = √(2/9)
func TestDetrendedRMS_Quadratic(t *testing.T) {
	got := detrendedRMS([]float64{0, 1, 4})
	want := math.Sqrt(2.0 / 9.0)

	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected %.12f, got %.12f", want, got)
	}
}

func TestDetrendedFluctuation_Profile(t *testing.T) {
	profile := detrendedFluctuation{}.prepare([]float64{1, 2, 3, 4})

	want := []float64{-1.5, -2, -1.5, 0}
	for i := range want {
		if math.Abs(profile[i]-want[i]) > 1e-12 {
			t.Fatalf("Profile: expected %v, got %v", want, profile)
		}
	}
}

// TestVarianceOfIncrements_Aggregate checks Var(x[t+2] − x[t]) on a hand-computed series.
func TestVarianceOfIncrements_Aggregate(t *testing.T) {
	series := []float64{0, 1, 0, 3, 0, 5}
	// lag 2 increments: 0, 2, 0, 2 → mean 1, population variance 1
	v, ok := varianceOfIncrements{}.aggregate(series, 2)
	if !ok {
		t.Fatal("Expected a value")
	}
	if math.Abs(v-1) > 1e-12 {
		t.Errorf("Expected variance 1, got %g", v)
	}

	if _, ok := (varianceOfIncrements{}).aggregate(series, len(series)); ok {
		t.Error("Lag equal to series length should produce no value")
	}
}

func TestVarianceOfIncrements_DefaultMaxWindow(t *testing.T) {
	m := varianceOfIncrements{}
	if got := m.defaultMaxWindow(200); got != 50 {
		t.Errorf("defaultMaxWindow(200) = %d, want 50", got)
	}
	if got := m.defaultMaxWindow(5000); got != DefaultMaxLag {
		t.Errorf("defaultMaxWindow(5000) = %d, want %d", got, DefaultMaxLag)
	}
}

// TestRescaledRange_Aggregate checks R/S on one hand-computed window.
//
//	window 1, 3, 2, 6: mean 3, cumulative deviation −2, −2, −3, 0
//	R = 0 − (−3) = 3, S = √(14/3)
func TestRescaledRange_Aggregate(t *testing.T) {
	series := []float64{1, 3, 2, 6, 1, 3, 2, 6}

	got, ok := rescaledRange{}.aggregate(series, 4)
	if !ok {
		t.Fatal("Expected a value")
	}
	want := 3 / math.Sqrt(14.0/3.0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected R/S %.12f, got %.12f", want, got)
	}
}

// TestRescaledRange_SkipsFlatWindows verifies zero-deviation windows are not counted.
func TestRescaledRange_SkipsFlatWindows(t *testing.T) {
	flat := []float64{5, 5, 5, 5, 5, 5, 5, 5}
	if _, ok := (rescaledRange{}).aggregate(flat, 4); ok {
		t.Error("All-flat windows should produce no value")
	}

	mixed := []float64{5, 5, 5, 5, 1, 3, 2, 6}
	got, ok := rescaledRange{}.aggregate(mixed, 4)
	if !ok {
		t.Fatal("Expected a value from the non-flat window")
	}
	want := 3 / math.Sqrt(14.0/3.0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Flat window should be skipped, not averaged: expected %.6f, got %.6f", want, got)
	}
}

func TestStrategy_Exponent(t *testing.T) {
	tests := []struct {
		s     Strategy
		slope float64
		want  float64
	}{
		{DetrendedFluctuation, 0.8, 0.8},
		{VarianceOfIncrements, 0.8, 0.4},
		{RescaledRange, 0.8, 0.8},
	}

	for _, tt := range tests {
		m, err := tt.s.statistic()
		if err != nil {
			t.Fatalf("statistic(%v) failed: %v", tt.s, err)
		}
		if got := m.exponent(tt.slope); got != tt.want {
			t.Errorf("%v: exponent(%g) = %g, want %g", tt.s, tt.slope, got, tt.want)
		}
	}
}

func TestAmplitude(t *testing.T) {
	if got := amplitude([]float64{-2, 5, 1}); got != 7 {
		t.Errorf("Expected 7, got %g", got)
	}
	if got := amplitude(nil); got != 0 {
		t.Errorf("Expected 0 for empty input, got %g", got)
	}
}
