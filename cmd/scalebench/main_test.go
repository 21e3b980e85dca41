package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexshd/scalebench/internal/config"
	"github.com/alexshd/scalebench/internal/report"
	"github.com/alexshd/scalebench/internal/seriesio"
)

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

// executeWithInput runs the CLI with stdin set to input.
func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(input))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color"))

	err := cmd.Execute()
	return out.String(), err
}

func writeSeries(t *testing.T, kind string, length int, hurst float64) string {
	t.Helper()

	series, err := generate(kind, length, 7, hurst, 0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), kind+".csv")
	require.NoError(t, seriesio.WriteFile(path, kind, series))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "scalebench version")
}

func TestGenerateKinds(t *testing.T) {
	for _, kind := range generatorKinds {
		t.Run(kind, func(t *testing.T) {
			series, err := generate(kind, 256, 1, 0.7, 0)
			require.NoError(t, err)
			assert.Len(t, series, 256)
		})
	}

	_, err := generate("sine", 10, 1, 0.5, 0)
	assert.Error(t, err)

	_, err = generate("walk", 0, 1, 0.5, 0)
	assert.Error(t, err)

	_, err = generate("fbm", 10, 1, 1.5, 0)
	assert.Error(t, err)
}

func TestGenerateToStdout(t *testing.T) {
	out, err := execute(t, "generate", "--kind", "noise", "--length", "50", "--seed", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "noise", lines[0])
	assert.Len(t, lines, 51)
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := execute(t, "generate", "--kind", "fgn", "--length", "100", "--seed", "9")
	require.NoError(t, err)
	second, err := execute(t, "generate", "--kind", "fgn", "--length", "100", "--seed", "9")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.json")
	_, err := execute(t, "generate", "--kind", "walk", "--length", "64", "--output", path)
	require.NoError(t, err)

	series, err := seriesio.ReadInput(path, nil)
	require.NoError(t, err)
	assert.Len(t, series, 64)
}

func TestEstimateJSON(t *testing.T) {
	path := writeSeries(t, "walk", 3000, 0)

	out, err := execute(t, "estimate", "--input", path, "--strategy", "variance", "--format", "json")
	require.NoError(t, err)

	var view report.Estimates
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Results, 1)

	res := view.Results[0]
	assert.Equal(t, "variance", res.Strategy)
	assert.Empty(t, res.Error)
	require.NotNil(t, res.Hurst)
	assert.InDelta(t, 0.5, *res.Hurst, 0.1)
	assert.Equal(t, 3000, view.Length)
}

func TestEstimateFromStdin(t *testing.T) {
	series, err := generate("walk", 3000, 7, 0, 0)
	require.NoError(t, err)

	var csv bytes.Buffer
	require.NoError(t, seriesio.WriteCSV(&csv, "walk", series))

	out, err := executeWithInput(t, csv.String(), "estimate", "--input", "-", "--strategy", "variance", "--format", "json")
	require.NoError(t, err)

	var view report.Estimates
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 3000, view.Length)
	require.Len(t, view.Results, 1)
	require.NotNil(t, view.Results[0].Hurst)
	assert.InDelta(t, 0.5, *view.Results[0].Hurst, 0.1)
}

func TestEstimateAllStrategiesText(t *testing.T) {
	path := writeSeries(t, "noise", 2048, 0)

	out, err := execute(t, "estimate", "--input", path, "--strategy", "all", "--workers", "4")
	require.NoError(t, err)

	for _, name := range []string{"dfa", "variance", "rs"} {
		assert.Contains(t, out, name)
	}
}

func TestEstimateShortSeriesFails(t *testing.T) {
	path := writeSeries(t, "noise", 12, 0)

	out, err := execute(t, "estimate", "--input", path, "--strategy", "all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient data")
	assert.Contains(t, out, "insufficient data", "failed strategies are still reported")
}

func TestEstimateUnknownStrategy(t *testing.T) {
	path := writeSeries(t, "noise", 256, 0)

	_, err := execute(t, "estimate", "--input", path, "--strategy", "wavelet")
	assert.ErrorContains(t, err, "unknown strategy")
}

func TestEstimateRequiresInput(t *testing.T) {
	_, err := execute(t, "estimate")
	assert.Error(t, err)
}

func TestDimensionYAML(t *testing.T) {
	path := writeSeries(t, "fbm", 2000, 0.8)

	out, err := execute(t, "dimension", "--input", path, "--strategy", "variance", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "band: PERSISTENT")
	assert.Contains(t, out, "interpretation:")
}

func TestConcentration(t *testing.T) {
	out, err := execute(t, "concentration", "--count", "20000", "--alpha", "1.5", "--scale", "2", "--seed", "5", "--format", "json")
	require.NoError(t, err)

	var view report.Concentration
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 20000, view.Count)
	assert.Greater(t, view.Top01Share, 0.1)
	assert.True(t, view.IsPowerLaw)
}

func TestConcentrationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte("[1, 2, 3, 4, 5, 6, 7, 8, 9, 10]"), 0o644))

	out, err := execute(t, "concentration", "--input", path, "--format", "json")
	require.NoError(t, err)

	var view report.Concentration
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 10, view.Count)
	assert.False(t, view.IsPowerLaw)
}

func TestExperimentToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	_, err := execute(t, "experiment", "--seed", "42", "--length", "2000", "--format", "json", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var view report.Experiment
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, uint64(42), view.Seed)
	assert.Equal(t, 2000, view.Length)
	assert.NotEmpty(t, view.RunID)
	assert.Len(t, view.Controls, 2)
}

func TestConfigFileAndFlags(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "scalebench.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  format: json\nestimator:\n  strategy: rs\n"), 0o644))
	path := writeSeries(t, "noise", 2048, 0)

	out, err := execute(t, "estimate", "--config", cfgPath, "--input", path)
	require.NoError(t, err)

	var view report.Estimates
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Results, 1)
	assert.Equal(t, "rs", view.Results[0].Strategy)

	out, err = execute(t, "estimate", "--config", cfgPath, "--input", path, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "STRATEGY")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "version", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestConfigInitRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scalebench.yaml")

	out, err := execute(t, "config", "init", path, "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err, "existing file is not overwritten")
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", path, "--force", "--format", "json")
	require.NoError(t, err)
	loaded, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", loaded.Output.Format, "resolved config carries flag overrides")
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "config", "show", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "strategy: dfa")
	assert.Contains(t, out, "level: debug")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.Create(filepath.Join(t.TempDir(), "log.txt"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f), "regular file is not a terminal")
}

// TestRedirectedLogsHaveNoColor runs without --no-color; logs go to a buffer, so
// they must still be plain text.
func TestRedirectedLogsHaveNoColor(t *testing.T) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"experiment", "--length", "1500", "--log-level", "info"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "experiment finished")
	assert.NotContains(t, errOut.String(), "\x1b[")
}
