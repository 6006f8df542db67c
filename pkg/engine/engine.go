package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pricecore/oracle-core/pkg/aggregator"
	"github.com/pricecore/oracle-core/pkg/quote"
	"github.com/pricecore/oracle-core/pkg/stats"
	"github.com/pricecore/oracle-core/pkg/weights"
)

// Engine runs the Aggregation Engine algorithm of spec.md §4.4 against
// a source weight registry. It holds no other state.
type Engine struct {
	weights *weights.Registry
}

// New builds an Engine bound to registry. registry must not be nil.
func New(registry *weights.Registry) *Engine {
	return &Engine{weights: registry}
}

// Aggregate runs the nine-step algorithm of spec.md §4.4 and returns
// the resulting ConsensusPrice. now is the caller-supplied "current
// time" in epoch milliseconds, so tests can drive the window filter
// deterministically.
func (e *Engine) Aggregate(symbol string, quotes []quote.CanonicalQuote, opts quote.AggregationOptions, now int64) (quote.ConsensusPrice, error) {
	if symbol == "" {
		return quote.ConsensusPrice{}, ErrEmptySymbol
	}
	if len(quotes) == 0 {
		return quote.ConsensusPrice{}, ErrEmptyInput
	}
	if opts.MinSources < 1 {
		return quote.ConsensusPrice{}, ErrInvalidMinSources
	}
	if len(quotes) < opts.MinSources {
		return quote.ConsensusPrice{}, ErrInsufficientSources
	}
	for _, q := range quotes {
		if q.Symbol != symbol {
			return quote.ConsensusPrice{}, fmt.Errorf("%w: %s", ErrSymbolMismatch, q.Symbol)
		}
		f, _ := q.Price.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) || !q.Price.IsPositive() {
			return quote.ConsensusPrice{}, fmt.Errorf("%w: %s", ErrInvalidPriceValue, q.Price.String())
		}
	}

	survivors := windowFilter(quotes, opts.WindowMillis, now)
	if len(survivors) < opts.MinSources {
		return quote.ConsensusPrice{}, ErrInsufficientRecentSources
	}

	strategy, err := aggregator.New(opts.Method, opts.TrimFraction)
	if err != nil {
		return quote.ConsensusPrice{}, err
	}

	sources := distinctSources(survivors)
	weightsBySource := e.weights.ResolveMany(sources, opts.SourceWeightOverrides)

	price, err := strategy.Aggregate(survivors, weightsBySource)
	if err != nil {
		return quote.ConsensusPrice{}, err
	}

	prices := make([]decimal.Decimal, len(survivors))
	for i, q := range survivors {
		prices[i] = q.Price
	}
	mean := stats.Mean(prices)
	variance := stats.Variance(prices, mean)
	stdDev := stats.StdDev(prices, mean)
	spreadPercent := stats.SpreadPercent(prices, mean)

	confidence := Confidence(len(survivors), spreadPercent, stdDev)

	windowStart, windowEnd := windowBounds(survivors)

	return quote.ConsensusPrice{
		Symbol:     symbol,
		Price:      price,
		Method:     strategy.Method(),
		Confidence: confidence,
		Metrics: quote.Metrics{
			StandardDeviation: stdDev,
			SpreadPercent:     spreadPercent,
			SourceCount:       len(survivors),
			Variance:          variance,
		},
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Sources:     sources,
		ComputedAt:  now,
	}, nil
}

// AggregateMany runs Aggregate once per symbol in bySymbol. A symbol
// that fails is omitted from the result and reported separately rather
// than aborting the remaining symbols, per spec.md §4.4's forward-
// progress-under-partial-failure requirement.
func (e *Engine) AggregateMany(bySymbol map[string][]quote.CanonicalQuote, opts quote.AggregationOptions, now int64) (results map[string]quote.ConsensusPrice, failures map[string]error) {
	results = make(map[string]quote.ConsensusPrice, len(bySymbol))
	failures = make(map[string]error)
	for symbol, quotes := range bySymbol {
		consensus, err := e.Aggregate(symbol, quotes, opts, now)
		if err != nil {
			failures[symbol] = err
			continue
		}
		results[symbol] = consensus
	}
	return results, failures
}

// Confidence implements spec.md §4.4's deterministic scoring:
// concave in source count, monotonic-decreasing in spread and
// dispersion, bounded to [0, 100].
func Confidence(sourceCount int, spreadPercent, stdDev decimal.Decimal) float64 {
	sourceScore := math.Min(40, 10+3*float64(sourceCount))

	spreadF, _ := spreadPercent.Float64()
	spreadScore := math.Max(0, 30-3*spreadF)

	stdDevF, _ := stdDev.Float64()
	stdDevScore := math.Max(0, 30-0.3*stdDevF)

	confidence := sourceScore + spreadScore + stdDevScore
	return math.Max(0, math.Min(100, confidence))
}

// windowFilter keeps quotes with cutoff <= OriginalTimestamp <= now.
// OriginalTimestamp is provider-supplied and untrusted; without the
// upper bound a clock-skewed source could submit a future timestamp
// that survives unfiltered and becomes windowEnd in windowBounds,
// violating windowStart <= windowEnd <= computedAt.
func windowFilter(quotes []quote.CanonicalQuote, windowMillis int64, now int64) []quote.CanonicalQuote {
	cutoff := now - windowMillis
	survivors := make([]quote.CanonicalQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.OriginalTimestamp >= cutoff && q.OriginalTimestamp <= now {
			survivors = append(survivors, q)
		}
	}
	return survivors
}

// distinctSources returns the sorted, deduplicated set of source
// identifiers among quotes.
func distinctSources(quotes []quote.CanonicalQuote) []string {
	seen := make(map[string]struct{})
	for _, q := range quotes {
		seen[string(q.Source)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// windowBounds returns the earliest and latest OriginalTimestamp among
// quotes.
func windowBounds(quotes []quote.CanonicalQuote) (start, end int64) {
	start, end = quotes[0].OriginalTimestamp, quotes[0].OriginalTimestamp
	for _, q := range quotes[1:] {
		if q.OriginalTimestamp < start {
			start = q.OriginalTimestamp
		}
		if q.OriginalTimestamp > end {
			end = q.OriginalTimestamp
		}
	}
	return start, end
}
