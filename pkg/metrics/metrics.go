// Package metrics provides Prometheus metrics for the price consensus
// core: ingestion, normalization, aggregation, scheduling, and publish
// outcomes, per spec.md §7's error propagation policy (every recovered
// failure is counted, never raised).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// IngestionFetchesTotal counts ingestor fetch attempts by outcome.
	IngestionFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestion_fetches_total",
			Help: "Total number of ingestor fetch attempts",
		},
		[]string{"ingestor", "status"},
	)

	// NormalizationOutcomesTotal counts per-quote normalization results.
	NormalizationOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalization_outcomes_total",
			Help: "Total number of raw quotes normalized, by outcome",
		},
		[]string{"outcome"},
	)

	// AggregationDuration is a histogram of aggregation call latency.
	AggregationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Duration of Aggregation Engine calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// AggregationFailuresTotal counts per-symbol aggregation failures.
	AggregationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregation_failures_total",
			Help: "Total number of per-symbol aggregation failures",
		},
		[]string{"reason"},
	)

	// ConsensusConfidence is a gauge of the last consensus confidence
	// per symbol.
	ConsensusConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "consensus_confidence",
			Help: "Confidence score of the last consensus price, per symbol",
		},
		[]string{"symbol"},
	)

	// CyclesTotal counts scheduler cycles by outcome.
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_cycles_total",
			Help: "Total number of scheduler cycles run",
		},
		[]string{"status"},
	)

	// CycleDuration is a histogram of full cycle latency.
	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scheduler_cycle_duration_seconds",
			Help:    "Duration of a full fetch-normalize-aggregate-publish cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CyclesSkippedTotal counts cycles skipped because the previous
	// cycle was still in flight, per spec.md §4.5's at-most-one
	// in-flight guarantee.
	CyclesSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_cycles_skipped_total",
			Help: "Total number of cycles skipped due to overlap with an in-flight cycle",
		},
	)

	// PublishOutcomesTotal counts publisher calls by outcome.
	PublishOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_outcomes_total",
			Help: "Total number of publisher calls, by outcome",
		},
		[]string{"status"},
	)

	// HTTPRequestsTotal is a counter of total HTTP requests served by
	// the debug surface.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	// HTTPRequestDuration is a histogram of HTTP request latencies.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"endpoint"},
	)
)

// Init registers all metrics with the default Prometheus registry.
func Init() {
	prometheus.MustRegister(
		IngestionFetchesTotal,
		NormalizationOutcomesTotal,
		AggregationDuration,
		AggregationFailuresTotal,
		ConsensusConfidence,
		CyclesTotal,
		CycleDuration,
		CyclesSkippedTotal,
		PublishOutcomesTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// ServeHTTP serves Prometheus metrics on addr until it errors or the
// process exits.
func ServeHTTP(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return server.ListenAndServe()
}

// RecordIngestionFetch records one ingestor fetch attempt outcome.
func RecordIngestionFetch(ingestor, status string) {
	IngestionFetchesTotal.WithLabelValues(ingestor, status).Inc()
}

// RecordNormalizationOutcome records one raw quote's normalization
// outcome ("success" or an error kind).
func RecordNormalizationOutcome(outcome string) {
	NormalizationOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordAggregation records a successful aggregation's method and
// duration, and the resulting confidence for symbol.
func RecordAggregation(method, symbol string, duration time.Duration, confidence float64) {
	AggregationDuration.WithLabelValues(method).Observe(duration.Seconds())
	ConsensusConfidence.WithLabelValues(symbol).Set(confidence)
}

// RecordAggregationFailure records a per-symbol aggregation failure by
// reason (typically an error kind string).
func RecordAggregationFailure(reason string) {
	AggregationFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordCycle records one scheduler cycle's outcome and duration.
func RecordCycle(status string, duration time.Duration) {
	CyclesTotal.WithLabelValues(status).Inc()
	CycleDuration.Observe(duration.Seconds())
}

// RecordCycleSkipped records a cycle skipped due to overlap.
func RecordCycleSkipped() {
	CyclesSkippedTotal.Inc()
}

// RecordPublishOutcome records one publisher call's outcome.
func RecordPublishOutcome(status string) {
	PublishOutcomesTotal.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records an HTTP request served by the debug
// surface.
func RecordHTTPRequest(endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
