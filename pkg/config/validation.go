package config

import (
	"fmt"
	"strings"
)

// Validate checks a loaded Config for internal consistency, per
// spec.md §6.
func Validate(cfg *Config) error {
	if err := validateScheduler(&cfg.Scheduler); err != nil {
		return fmt.Errorf("scheduler config: %w", err)
	}
	if err := validateSources(&cfg.Sources); err != nil {
		return fmt.Errorf("sources config: %w", err)
	}
	if err := validateLogging(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func validateScheduler(cfg *SchedulerConfig) error {
	if cfg.FetchIntervalMillis <= 0 && cfg.CronExpression == "" {
		return ErrInvalidFetchInterval
	}

	validMethods := map[string]bool{"weighted-mean": true, "median": true, "trimmed-mean": true}
	if !validMethods[strings.ToLower(cfg.DefaultMethod)] {
		return fmt.Errorf("%w: %s", ErrInvalidMethod, cfg.DefaultMethod)
	}

	if cfg.TrimFraction < 0 || cfg.TrimFraction >= 0.5 {
		return ErrInvalidTrimFraction
	}

	if cfg.MinSources < 1 {
		return ErrInvalidMinSources
	}

	if cfg.WindowMillis <= 0 {
		return ErrInvalidWindowMillis
	}

	if len(cfg.StockSymbols) == 0 {
		return ErrNoSymbolsConfigured
	}

	for name, weight := range cfg.SourceWeights {
		if weight < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeSourceWeight, name)
		}
	}

	return nil
}

func validateSources(cfg *SourcesConfig) error {
	if !cfg.Mock && len(cfg.HTTP) == 0 && len(cfg.WebSocket) == 0 {
		return ErrNoSourcesConfigured
	}

	for i, s := range cfg.HTTP {
		if s.Name == "" {
			return fmt.Errorf("http[%d]: %w", i, ErrSourceNameRequired)
		}
		if s.BaseURL == "" {
			return fmt.Errorf("http[%d] (%s): %w", i, s.Name, ErrSourceURLRequired)
		}
	}
	for i, s := range cfg.WebSocket {
		if s.Name == "" {
			return fmt.Errorf("websocket[%d]: %w", i, ErrSourceNameRequired)
		}
		if s.URL == "" {
			return fmt.Errorf("websocket[%d] (%s): %w", i, s.Name, ErrSourceURLRequired)
		}
	}

	return nil
}

func validateLogging(cfg *LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Level)] {
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, cfg.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[strings.ToLower(cfg.Format)] {
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, cfg.Format)
	}

	return nil
}
