package config

// Config is the root configuration structure, loaded from YAML and
// then overridden by the enumerated environment variables of
// spec.md §6.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sources   SourcesConfig   `yaml:"sources"`
	Debug     DebugConfig     `yaml:"debug"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SchedulerConfig configures the Fetch Orchestrator and the default
// Aggregation Engine options it drives.
type SchedulerConfig struct {
	FetchIntervalMillis int64              `yaml:"fetch_interval_millis"`
	CronExpression      string             `yaml:"cron_expression"`
	MinSources          int                `yaml:"min_sources"`
	WindowMillis        int64              `yaml:"window_millis"`
	DefaultMethod       string             `yaml:"default_method"`
	TrimFraction        float64            `yaml:"trim_fraction"`
	SourceWeights       map[string]float64 `yaml:"source_weights"`
	StockSymbols        []string           `yaml:"stock_symbols"`
}

// SourcesConfig configures the ingestor collaborators the scheduler
// drives.
type SourcesConfig struct {
	HTTP      []HTTPSourceConfig      `yaml:"http"`
	WebSocket []WebSocketSourceConfig `yaml:"websocket"`
	Mock      bool                    `yaml:"mock"`
	Publisher PublisherConfig         `yaml:"publisher"`
}

// HTTPSourceConfig configures one polling HTTPIngestor.
type HTTPSourceConfig struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
}

// WebSocketSourceConfig configures one streaming WebSocketIngestor.
type WebSocketSourceConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// PublisherConfig configures the downstream HTTPPublisher reference
// adapter. An empty Endpoint disables publishing; the core still
// aggregates and caches without a configured publisher.
type PublisherConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// DebugConfig configures the debug HTTP surface.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}
