// Package quote defines the data types shared by normalization,
// aggregation, and scheduling: raw provider quotes, canonical records,
// and consensus prices.
package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source is the canonical enum of recognized price providers.
type Source string

const (
	SourceAlphaVantage Source = "alpha_vantage"
	SourceFinnhub      Source = "finnhub"
	SourceYahooFinance Source = "yahoo_finance"
	SourceMock         Source = "mock"
	SourceUnknown      Source = "unknown"
)

// Method identifies an aggregation law.
type Method string

const (
	MethodWeightedMean Method = "weighted-mean"
	MethodMedian       Method = "median"
	MethodTrimmedMean  Method = "trimmed-mean"
)

// RawQuote is the ingestion input: a provider-native price record before
// normalization. Immutable once created by an ingestor.
type RawQuote struct {
	Symbol    string
	Price     float64
	Timestamp int64 // epoch milliseconds
	Source    string
}

// Audit records what the Canonical Record Builder changed, and when.
type Audit struct {
	OriginalSource    string
	OriginalSymbol    string
	NormalizedAt      int64 // epoch milliseconds
	NormalizerVersion string
	WasTransformed    bool
	Transformations   []string
}

// CanonicalQuote is the internal normalized form produced by the
// Canonical Record Builder. Read-only after construction.
type CanonicalQuote struct {
	Symbol            string
	Price             decimal.Decimal
	ISOTimestamp      string
	OriginalTimestamp int64
	Source            Source
	Audit             Audit
}

// Metrics bundles the dispersion statistics reported alongside a
// ConsensusPrice.
type Metrics struct {
	StandardDeviation decimal.Decimal
	SpreadPercent     decimal.Decimal
	SourceCount       int
	Variance          decimal.Decimal
}

// ConsensusPrice is the aggregation output: a consensus scalar with
// confidence, dispersion metrics, window, and source provenance.
type ConsensusPrice struct {
	Symbol      string
	Price       decimal.Decimal
	Method      Method
	Confidence  float64
	Metrics     Metrics
	WindowStart int64 // epoch milliseconds
	WindowEnd   int64 // epoch milliseconds
	Sources     []string
	ComputedAt  int64 // epoch milliseconds
}

// AggregationOptions configures one Aggregate call.
type AggregationOptions struct {
	MinSources            int
	WindowMillis          int64
	Method                Method
	TrimFraction          float64
	SourceWeightOverrides map[string]float64
}

// DefaultAggregationOptions returns the spec defaults: minSources=3,
// windowMillis=30s, weighted-mean, trimFraction=0.20.
func DefaultAggregationOptions() AggregationOptions {
	return AggregationOptions{
		MinSources:   3,
		WindowMillis: 30_000,
		Method:       MethodWeightedMean,
		TrimFraction: 0.20,
	}
}

// NowMillis returns the current wall-clock time as epoch milliseconds.
// It cannot be replaced at runtime; code that needs deterministic time
// (engine.Engine.Aggregate) takes "now" as a parameter instead.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
