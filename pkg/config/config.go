// Package config provides configuration loading and validation for
// oracle-core, following spec.md §6: YAML on disk with environment
// variable expansion, then a fixed set of environment variable
// overrides applied on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, expands environment variables in
// it, applies defaults, and then applies the §6 environment variable
// overrides.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(absPath) // #nosec G304 -- path sanitized with filepath.Clean and filepath.Abs
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Scheduler.MinSources == 0 {
		cfg.Scheduler.MinSources = 3
	}
	if cfg.Scheduler.WindowMillis == 0 {
		cfg.Scheduler.WindowMillis = 30_000
	}
	if cfg.Scheduler.DefaultMethod == "" {
		cfg.Scheduler.DefaultMethod = "weighted-mean"
	}
	if cfg.Scheduler.TrimFraction == 0 {
		cfg.Scheduler.TrimFraction = 0.20
	}
	if cfg.Scheduler.FetchIntervalMillis == 0 && cfg.Scheduler.CronExpression == "" {
		cfg.Scheduler.FetchIntervalMillis = 60_000
	}

	if cfg.Debug.Addr == "" {
		cfg.Debug.Addr = ":8080"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9091"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// applyEnvOverrides applies the environment variables enumerated in
// spec.md §6 over whatever the YAML file (and its own ${VAR}
// expansions) produced. Unset or unparsable variables are ignored,
// leaving the YAML-derived value in place.
func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("FETCH_INTERVAL_MILLIS"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Scheduler.FetchIntervalMillis = n
		}
	}
	if v, ok := os.LookupEnv("CRON_EXPRESSION"); ok {
		cfg.Scheduler.CronExpression = v
	}
	if v, ok := os.LookupEnv("MIN_SOURCES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scheduler.MinSources = n
		}
	}
	if v, ok := os.LookupEnv("WINDOW_MILLIS"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Scheduler.WindowMillis = n
		}
	}
	if v, ok := os.LookupEnv("DEFAULT_METHOD"); ok {
		cfg.Scheduler.DefaultMethod = v
	}
	if v, ok := os.LookupEnv("TRIM_FRACTION"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scheduler.TrimFraction = f
		}
	}
	if v, ok := os.LookupEnv("STOCK_SYMBOLS"); ok {
		cfg.Scheduler.StockSymbols = splitAndTrim(v)
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}

	if cfg.Scheduler.SourceWeights == nil {
		cfg.Scheduler.SourceWeights = make(map[string]float64)
	}
	for _, env := range os.Environ() {
		key, value, found := strings.Cut(env, "=")
		if !found || !strings.HasPrefix(key, "SOURCE_WEIGHT_") {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, "SOURCE_WEIGHT_"))
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			cfg.Scheduler.SourceWeights[name] = f
		}
	}
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
