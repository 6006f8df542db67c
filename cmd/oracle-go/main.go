package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pricecore/oracle-core/pkg/api"
	"github.com/pricecore/oracle-core/pkg/cache"
	"github.com/pricecore/oracle-core/pkg/config"
	"github.com/pricecore/oracle-core/pkg/engine"
	"github.com/pricecore/oracle-core/pkg/ingest"
	"github.com/pricecore/oracle-core/pkg/logging"
	"github.com/pricecore/oracle-core/pkg/metrics"
	"github.com/pricecore/oracle-core/pkg/normalize"
	"github.com/pricecore/oracle-core/pkg/publish"
	"github.com/pricecore/oracle-core/pkg/quote"
	"github.com/pricecore/oracle-core/pkg/retry"
	"github.com/pricecore/oracle-core/pkg/scheduler"
	"github.com/pricecore/oracle-core/pkg/version"
	"github.com/pricecore/oracle-core/pkg/weights"
)

var (
	configFile = flag.String("config", "config/config.yaml", "Path to configuration file")
	showVer    = flag.Bool("version", false, "Show version and exit")
	runOnce    = flag.Bool("once", false, "Run a single fetch-normalize-aggregate cycle and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("oracle-core version %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting oracle-core", "version", version.Version)

	if cfg.Metrics.Enabled {
		metrics.Init()
		metricsLogger := logger.Component("metrics")
		go func() {
			metricsLogger.Info("starting metrics server", "addr", cfg.Metrics.Addr)
			if err := metrics.ServeHTTP(cfg.Metrics.Addr); err != nil {
				metricsLogger.Error("metrics server failed", "error", err)
			}
		}()
	}

	weightRegistry, err := weights.New(cfg.Scheduler.SourceWeights)
	if err != nil {
		logger.Fatal("invalid source weights", "error", err)
	}

	registry := normalize.NewDefaultRegistry()
	eng := engine.New(weightRegistry)
	priceCache := cache.New()

	ingestors, err := buildIngestors(cfg, logger.Component("ingest"))
	if err != nil {
		logger.Fatal("failed to build ingestors", "error", err)
	}

	var pub publish.Publisher
	if cfg.Sources.Publisher.Endpoint != "" {
		pub = publish.NewHTTPPublisher(cfg.Sources.Publisher.Endpoint, nil)
		logger.Info("publishing enabled", "endpoint", cfg.Sources.Publisher.Endpoint)
	} else {
		logger.Info("publishing disabled: no endpoint configured")
	}

	method, trimFraction := resolveMethod(cfg.Scheduler)

	sched := scheduler.New(scheduler.Config{
		Ingestors: ingestors,
		Registry:  registry,
		Engine:    eng,
		Cache:     priceCache,
		Publisher: pub,
		Symbols:   cfg.Scheduler.StockSymbols,
		Options: quote.AggregationOptions{
			MinSources:   cfg.Scheduler.MinSources,
			WindowMillis: cfg.Scheduler.WindowMillis,
			Method:       method,
			TrimFraction: trimFraction,
		},
		IntervalMillis: cfg.Scheduler.FetchIntervalMillis,
		CronExpression: cfg.Scheduler.CronExpression,
		Logger:         logger.Component("scheduler"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *runOnce {
		if err := sched.RunOnce(ctx); err != nil {
			logger.Error("cycle failed", "error", err)
			os.Exit(1)
		}
		return
	}

	var debugServer *api.Server
	if cfg.Debug.Enabled {
		apiLogger := logger.Component("api")
		debugServer = api.NewServer(cfg.Debug.Addr, priceCache, apiLogger)
		go func() {
			apiLogger.Info("starting debug server", "addr", cfg.Debug.Addr)
			if err := debugServer.Start(); err != nil {
				apiLogger.Error("debug server failed", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := sched.Start(ctx); err != nil {
		logger.Fatal("failed to start scheduler", "error", err)
	}

	sig := <-sigChan
	logger.Info("received shutdown signal", "signal", sig.String())

	sched.Stop()

	if debugServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := debugServer.Stop(shutdownCtx); err != nil {
			logger.Warn("debug server shutdown error", "error", err)
		}
		shutdownCancel()
	}

	logger.Info("shutdown complete")
}

// buildIngestors wires one Ingestor per configured source, per
// spec.md §6. A mock ingestor is added when Sources.Mock is set,
// useful for local development without live provider credentials.
func buildIngestors(cfg *config.Config, logger *logging.Logger) ([]ingest.Ingestor, error) {
	var ingestors []ingest.Ingestor

	for _, src := range cfg.Sources.HTTP {
		ingestors = append(ingestors, ingest.NewHTTPIngestor(ingest.HTTPIngestorConfig{
			Name:    src.Name,
			BaseURL: src.BaseURL,
			RetryPolicy: retry.Policy{
				MaxAttempts: 3,
				Delay:       500 * time.Millisecond,
				Mode:        retry.Exponential,
			},
		}))
		logger.Info("configured HTTP ingestor", "name", src.Name, "base_url", src.BaseURL)
	}

	for _, src := range cfg.Sources.WebSocket {
		ws := ingest.NewWebSocketIngestor(ingest.WebSocketIngestorConfig{
			Name: src.Name,
			URL:  src.URL,
		})
		ingestors = append(ingestors, ws)
		logger.Info("configured WebSocket ingestor", "name", src.Name, "url", src.URL)
	}

	if cfg.Sources.Mock {
		mock := ingest.NewMockIngestor("mock")
		ingestors = append(ingestors, mock)
		logger.Info("configured mock ingestor")
	}

	if len(ingestors) == 0 {
		return nil, fmt.Errorf("no ingestors configured")
	}

	return ingestors, nil
}

func resolveMethod(cfg config.SchedulerConfig) (quote.Method, float64) {
	switch cfg.DefaultMethod {
	case "median":
		return quote.MethodMedian, 0
	case "trimmed-mean":
		return quote.MethodTrimmedMean, cfg.TrimFraction
	default:
		return quote.MethodWeightedMean, 0
	}
}
