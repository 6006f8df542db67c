package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/pricecore/oracle-core/pkg/quote"
	"github.com/pricecore/oracle-core/pkg/stats"
)

// WeightedMean aggregates by Σ(price·weight)/Σ(weight). Each quote's
// weight is the map lookup by its canonical source, defaulting to 1.0.
type WeightedMean struct{}

var _ Strategy = WeightedMean{}

// Method implements Strategy.
func (WeightedMean) Method() quote.Method { return quote.MethodWeightedMean }

// Aggregate implements Strategy.
func (WeightedMean) Aggregate(quotes []quote.CanonicalQuote, weightsBySource map[string]float64) (decimal.Decimal, error) {
	if len(quotes) == 0 {
		return decimal.Zero, ErrEmptyInput
	}
	if len(quotes) == 1 {
		return quotes[0].Price, nil
	}

	prices := make([]decimal.Decimal, len(quotes))
	weights := make([]decimal.Decimal, len(quotes))
	for i, q := range quotes {
		prices[i] = q.Price
		weights[i] = effectiveWeight(q, weightsBySource)
	}

	weightedTotal, weightTotal := stats.WeightedSum(prices, weights)
	if weightTotal.IsZero() {
		return decimal.Zero, ErrZeroTotalWeight
	}
	return weightedTotal.Div(weightTotal), nil
}
