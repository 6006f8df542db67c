package config

import "errors"

var (
	// ErrConfigNotFound indicates the config file could not be read.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrInvalidMethod indicates an unknown default aggregation method.
	ErrInvalidMethod = errors.New("invalid default_method")
	// ErrInvalidTrimFraction indicates trim_fraction is out of range.
	ErrInvalidTrimFraction = errors.New("trim_fraction must be in [0, 0.5)")
	// ErrInvalidMinSources indicates min_sources is less than 1.
	ErrInvalidMinSources = errors.New("min_sources must be >= 1")
	// ErrInvalidWindowMillis indicates window_millis is not positive.
	ErrInvalidWindowMillis = errors.New("window_millis must be > 0")
	// ErrInvalidFetchInterval indicates neither a positive interval nor a cron expression is configured.
	ErrInvalidFetchInterval = errors.New("either fetch_interval_millis or cron_expression must be set")
	// ErrNoSymbolsConfigured indicates that no stock symbols are configured.
	ErrNoSymbolsConfigured = errors.New("at least one stock symbol must be configured")
	// ErrNoSourcesConfigured indicates that no ingestor sources are configured.
	ErrNoSourcesConfigured = errors.New("at least one source (http, websocket, or mock) must be configured")
	// ErrSourceNameRequired indicates a source entry is missing its name.
	ErrSourceNameRequired = errors.New("source name is required")
	// ErrSourceURLRequired indicates a source entry is missing its URL.
	ErrSourceURLRequired = errors.New("source url is required")
	// ErrNegativeSourceWeight indicates a configured source weight is negative.
	ErrNegativeSourceWeight = errors.New("source weight must be >= 0")
	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat indicates the log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
