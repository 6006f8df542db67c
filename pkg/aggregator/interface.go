package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/pricecore/oracle-core/pkg/quote"
)

// Strategy computes a single consensus price from a non-empty set of
// canonical quotes sharing one symbol. weightsBySource is optional; a
// nil map means "use 1.0 for every source".
type Strategy interface {
	// Aggregate returns the consensus numeric price for quotes.
	Aggregate(quotes []quote.CanonicalQuote, weightsBySource map[string]float64) (decimal.Decimal, error)

	// Method identifies which quote.Method this strategy implements.
	Method() quote.Method
}

// New constructs the strategy for method, binding trimFraction when
// method is trimmed-mean. trimFraction is ignored by the other methods.
func New(method quote.Method, trimFraction float64) (Strategy, error) {
	switch method {
	case quote.MethodWeightedMean:
		return WeightedMean{}, nil
	case quote.MethodMedian:
		return Median{}, nil
	case quote.MethodTrimmedMean:
		return NewTrimmedMean(trimFraction)
	default:
		return nil, ErrUnknownMethod
	}
}

// effectiveWeight resolves a quote's aggregation weight: the source's
// entry in weightsBySource if present, else 1.0. Canonical quotes carry
// no explicit per-quote weight field (that's a source-level concept,
// resolved once per cycle by the caller), so "explicit per-quote weight"
// from spec.md §4.3 collapses to the weightsBySource lookup here.
func effectiveWeight(q quote.CanonicalQuote, weightsBySource map[string]float64) decimal.Decimal {
	if weightsBySource != nil {
		if w, ok := weightsBySource[string(q.Source)]; ok {
			return decimal.NewFromFloat(w)
		}
	}
	return decimal.NewFromInt(1)
}
