package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
scheduler:
  fetch_interval_millis: 15000
  min_sources: 2
  window_millis: 45000
  default_method: median
  stock_symbols:
    - AAPL
    - MSFT
sources:
  mock: true
logging:
  level: debug
`

func writeTempConfig(t *testing.T, contents string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_AppliesYAMLAndDefaults(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(15000), cfg.Scheduler.FetchIntervalMillis)
	assert.Equal(t, 2, cfg.Scheduler.MinSources)
	assert.Equal(t, "median", cfg.Scheduler.DefaultMethod)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Scheduler.StockSymbols)
	assert.True(t, cfg.Sources.Mock)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format) // default
	assert.Equal(t, ":8080", cfg.Debug.Addr)    // default
}

func TestLoad_EnvOverridesWinOverYAML(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)

	t.Setenv("MIN_SOURCES", "5")
	t.Setenv("DEFAULT_METHOD", "weighted-mean")
	t.Setenv("STOCK_SYMBOLS", "AAPL, GOOG ,  TSLA")
	t.Setenv("SOURCE_WEIGHT_ALPHA_VANTAGE", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Scheduler.MinSources)
	assert.Equal(t, "weighted-mean", cfg.Scheduler.DefaultMethod)
	assert.Equal(t, []string{"AAPL", "GOOG", "TSLA"}, cfg.Scheduler.StockSymbols)
	assert.Equal(t, 2.5, cfg.Scheduler.SourceWeights["alpha_vantage"])
}

func TestLoad_DefaultsMatchSpec(t *testing.T) {
	path := writeTempConfig(t, "sources:\n  mock: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(60_000), cfg.Scheduler.FetchIntervalMillis)
	assert.Equal(t, int64(30_000), cfg.Scheduler.WindowMillis)
	assert.Equal(t, 0.20, cfg.Scheduler.TrimFraction)
	assert.Equal(t, 3, cfg.Scheduler.MinSources)
	assert.Equal(t, "weighted-mean", cfg.Scheduler.DefaultMethod)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestValidate_RejectsUnknownMethod(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.DefaultMethod = "bogus"

	err := Validate(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestValidate_RejectsNoSources(t *testing.T) {
	cfg := validConfig()
	cfg.Sources.Mock = false
	cfg.Sources.HTTP = nil
	cfg.Sources.WebSocket = nil

	err := Validate(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSourcesConfigured)
}

func TestValidate_RejectsInvalidTrimFraction(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.TrimFraction = 0.5

	err := Validate(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTrimFraction)
}

func TestValidate_AcceptsWellFormedConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, Validate(&cfg))
}

func validConfig() Config {
	cfg := Config{
		Scheduler: SchedulerConfig{
			FetchIntervalMillis: 60_000,
			MinSources:          3,
			WindowMillis:        30_000,
			DefaultMethod:       "weighted-mean",
			TrimFraction:        0.20,
			StockSymbols:        []string{"AAPL"},
		},
		Sources: SourcesConfig{Mock: true},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
	return cfg
}
