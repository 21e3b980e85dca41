// Package config loads CLI settings from defaults, a YAML file, a .env file and
// SCALEBENCH_* environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alexshd/scalebench"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCALEBENCH_"

// Config is the full CLI configuration.
type Config struct {
	Estimator  EstimatorSection  `yaml:"estimator"`
	Experiment ExperimentSection `yaml:"experiment"`
	Output     OutputSection     `yaml:"output"`
	Log        LogSection        `yaml:"log"`
}

// EstimatorSection mirrors scalebench.Config plus the default strategy.
type EstimatorSection struct {
	Strategy     string  `yaml:"strategy"`
	MinWindow    int     `yaml:"min_window"`
	MaxWindow    int     `yaml:"max_window"`
	Candidates   int     `yaml:"candidates"`
	MinPoints    int     `yaml:"min_points"`
	Workers      int     `yaml:"workers"`
	MinAggregate float64 `yaml:"min_aggregate"`
}

// ExperimentSection holds the experiment-runner settings.
type ExperimentSection struct {
	Seed            uint64  `yaml:"seed"`
	Length          int     `yaml:"length"`
	PersistentHurst float64 `yaml:"persistent_hurst"`
	ScoreCount      int     `yaml:"score_count"`
	ScoreAlpha      float64 `yaml:"score_alpha"`
	ScoreScale      float64 `yaml:"score_scale"`
}

// OutputSection controls report rendering.
type OutputSection struct {
	Format    string `yaml:"format"`    // json, yaml or text
	Precision int    `yaml:"precision"` // decimal places in rendered reports
}

// LogSection controls the slog handler.
type LogSection struct {
	Level   string `yaml:"level"` // debug, info, warn, error
	NoColor bool   `yaml:"no_color"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	est := scalebench.DefaultConfig()
	exp := scalebench.DefaultExperimentConfig()
	return &Config{
		Estimator: EstimatorSection{
			Strategy:     scalebench.DetrendedFluctuation.String(),
			MinWindow:    est.MinWindow,
			MaxWindow:    est.MaxWindow,
			Candidates:   est.Candidates,
			MinPoints:    est.MinPoints,
			Workers:      est.Workers,
			MinAggregate: est.MinAggregate,
		},
		Experiment: ExperimentSection{
			Seed:            exp.Seed,
			Length:          exp.Length,
			PersistentHurst: exp.PersistentHurst,
			ScoreCount:      exp.ScoreCount,
			ScoreAlpha:      exp.ScoreAlpha,
			ScoreScale:      exp.ScoreScale,
		},
		Output: OutputSection{
			Format:    "text",
			Precision: 4,
		},
		Log: LogSection{
			Level: "info",
		},
	}
}

// Load builds the configuration. A missing configPath or .env file is not an error;
// an unreadable or malformed one is.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides reads SCALEBENCH_* variables into cfg.
func applyEnvOverrides(cfg *Config) error {
	ints := map[string]*int{
		"MIN_WINDOW":  &cfg.Estimator.MinWindow,
		"MAX_WINDOW":  &cfg.Estimator.MaxWindow,
		"CANDIDATES":  &cfg.Estimator.Candidates,
		"MIN_POINTS":  &cfg.Estimator.MinPoints,
		"WORKERS":     &cfg.Estimator.Workers,
		"LENGTH":      &cfg.Experiment.Length,
		"SCORE_COUNT": &cfg.Experiment.ScoreCount,
		"PRECISION":   &cfg.Output.Precision,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	floats := map[string]*float64{
		"MIN_AGGREGATE":    &cfg.Estimator.MinAggregate,
		"PERSISTENT_HURST": &cfg.Experiment.PersistentHurst,
		"SCORE_ALPHA":      &cfg.Experiment.ScoreAlpha,
		"SCORE_SCALE":      &cfg.Experiment.ScoreScale,
	}
	for key, dst := range floats {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = f
		}
	}

	if v, ok := lookup("SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", EnvPrefix, err)
		}
		cfg.Experiment.Seed = seed
	}
	if v, ok := lookup("NO_COLOR"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sNO_COLOR: %w", EnvPrefix, err)
		}
		cfg.Log.NoColor = b
	}
	if v, ok := lookup("STRATEGY"); ok {
		cfg.Estimator.Strategy = v
	}
	if v, ok := lookup("FORMAT"); ok {
		cfg.Output.Format = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Validate rejects settings the CLI cannot act on.
func (c *Config) Validate() error {
	if c.Estimator.Strategy != "all" {
		if _, err := scalebench.ParseStrategy(c.Estimator.Strategy); err != nil {
			return fmt.Errorf("estimator.strategy: %w", err)
		}
	}
	if c.Estimator.MinWindow < 0 || c.Estimator.MaxWindow < 0 {
		return fmt.Errorf("estimator window sizes cannot be negative")
	}
	if c.Estimator.Workers < 0 {
		return fmt.Errorf("estimator.workers cannot be negative")
	}
	if c.Experiment.Length <= 0 {
		return fmt.Errorf("experiment.length must be positive")
	}
	if !(c.Experiment.PersistentHurst > 0 && c.Experiment.PersistentHurst < 1) {
		return fmt.Errorf("experiment.persistent_hurst must be in (0, 1)")
	}
	if c.Experiment.ScoreCount <= 0 {
		return fmt.Errorf("experiment.score_count must be positive")
	}
	if c.Experiment.ScoreAlpha <= 0 || c.Experiment.ScoreScale <= 0 {
		return fmt.Errorf("experiment.score_alpha and score_scale must be positive")
	}
	switch c.Output.Format {
	case "json", "yaml", "text":
	default:
		return fmt.Errorf("output.format must be json, yaml or text, got %q", c.Output.Format)
	}
	if c.Output.Precision < 0 {
		return fmt.Errorf("output.precision cannot be negative")
	}
	return nil
}

// EstimatorConfig converts the estimator section into library settings.
func (c *Config) EstimatorConfig() scalebench.Config {
	return scalebench.Config{
		MinWindow:    c.Estimator.MinWindow,
		MaxWindow:    c.Estimator.MaxWindow,
		Candidates:   c.Estimator.Candidates,
		MinPoints:    c.Estimator.MinPoints,
		Workers:      c.Estimator.Workers,
		MinAggregate: c.Estimator.MinAggregate,
	}
}

// ExperimentConfig converts the experiment section into library settings.
func (c *Config) ExperimentConfig() scalebench.ExperimentConfig {
	exp := scalebench.DefaultExperimentConfig()
	exp.Seed = c.Experiment.Seed
	exp.Length = c.Experiment.Length
	exp.PersistentHurst = c.Experiment.PersistentHurst
	exp.ScoreCount = c.Experiment.ScoreCount
	exp.ScoreAlpha = c.Experiment.ScoreAlpha
	exp.ScoreScale = c.Experiment.ScoreScale
	exp.Estimator = c.EstimatorConfig()
	return exp
}

// Save writes the configuration as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
