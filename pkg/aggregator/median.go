package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/pricecore/oracle-core/pkg/quote"
	"github.com/pricecore/oracle-core/pkg/stats"
)

// Median sorts prices ascending and returns the middle element (or the
// mean of the two central elements for an even count). Weights are
// ignored by contract — median is the strategy that stays stable
// against a single outlier regardless of its magnitude.
type Median struct{}

var _ Strategy = Median{}

// Method implements Strategy.
func (Median) Method() quote.Method { return quote.MethodMedian }

// Aggregate implements Strategy.
func (Median) Aggregate(quotes []quote.CanonicalQuote, _ map[string]float64) (decimal.Decimal, error) {
	if len(quotes) == 0 {
		return decimal.Zero, ErrEmptyInput
	}
	if len(quotes) == 1 {
		return quotes[0].Price, nil
	}

	prices := make([]decimal.Decimal, len(quotes))
	for i, q := range quotes {
		prices[i] = q.Price
	}
	return stats.SortedMedian(stats.Sorted(prices)), nil
}
