package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/pricecore/oracle-core/pkg/quote"
)

// TrimmedMean drops the top and bottom trimFraction of sorted prices
// and applies weighted mean to the remainder. Construction rejects
// fractions outside [0, 0.5). Inputs under three elements fall back to
// weighted mean over the full set, since there's nothing sensible left
// to trim.
type TrimmedMean struct {
	fraction float64
}

var _ Strategy = TrimmedMean{}

// NewTrimmedMean constructs a TrimmedMean bound to fraction, rejecting
// fraction outside [0, 0.5).
func NewTrimmedMean(fraction float64) (TrimmedMean, error) {
	if fraction < 0 || fraction >= 0.5 {
		return TrimmedMean{}, ErrInvalidTrimFraction
	}
	return TrimmedMean{fraction: fraction}, nil
}

// Method implements Strategy.
func (TrimmedMean) Method() quote.Method { return quote.MethodTrimmedMean }

// Aggregate implements Strategy.
func (t TrimmedMean) Aggregate(quotes []quote.CanonicalQuote, weightsBySource map[string]float64) (decimal.Decimal, error) {
	if len(quotes) == 0 {
		return decimal.Zero, ErrEmptyInput
	}
	if len(quotes) == 1 {
		return quotes[0].Price, nil
	}
	if len(quotes) < 3 {
		return WeightedMean{}.Aggregate(quotes, weightsBySource)
	}

	sortedQuotes := make([]quote.CanonicalQuote, len(quotes))
	copy(sortedQuotes, quotes)
	sortStableByPrice(sortedQuotes)

	n := len(sortedQuotes)
	k := int(float64(n) * t.fraction)
	trimmed := sortedQuotes[k : n-k]
	if len(trimmed) == 0 {
		// fraction close to 0.5 with a small n can empty the slice;
		// fall back to the untrimmed set rather than dividing by zero.
		trimmed = sortedQuotes
	}

	return WeightedMean{}.Aggregate(trimmed, weightsBySource)
}

// sortStableByPrice sorts quotes ascending by price, preserving input
// order among equal prices (stable tie-breaking, per spec.md §4.3).
func sortStableByPrice(quotes []quote.CanonicalQuote) {
	// insertion sort is stable and fine at the small n aggregation
	// windows operate on; avoids importing sort for one call site.
	for i := 1; i < len(quotes); i++ {
		for j := i; j > 0 && quotes[j].Price.LessThan(quotes[j-1].Price); j-- {
			quotes[j], quotes[j-1] = quotes[j-1], quotes[j]
		}
	}
}
