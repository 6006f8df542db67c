package aggregator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricecore/oracle-core/pkg/quote"
)

func cq(source string, price float64) quote.CanonicalQuote {
	return quote.CanonicalQuote{
		Symbol: "AAPL",
		Price:  decimal.NewFromFloat(price),
		Source: quote.Source(source),
	}
}

func TestWeightedMean_Homogeneous(t *testing.T) {
	quotes := []quote.CanonicalQuote{cq("a", 100), cq("b", 102), cq("c", 98)}

	price, err := WeightedMean{}.Aggregate(quotes, nil)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(100)))
}

func TestWeightedMean_WithOverride(t *testing.T) {
	quotes := []quote.CanonicalQuote{cq("a", 100), cq("b", 110)}
	weights := map[string]float64{"a": 3, "b": 1}

	price, err := WeightedMean{}.Aggregate(quotes, weights)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(102.5)))
}

func TestWeightedMean_ZeroTotalWeight(t *testing.T) {
	quotes := []quote.CanonicalQuote{cq("a", 100), cq("b", 110)}
	weights := map[string]float64{"a": 0, "b": 0}

	_, err := WeightedMean{}.Aggregate(quotes, weights)
	assert.ErrorIs(t, err, ErrZeroTotalWeight)
}

func TestWeightedMean_EmptyInput(t *testing.T) {
	_, err := WeightedMean{}.Aggregate(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestMedian_ProtectsAgainstOutlier(t *testing.T) {
	quotes := []quote.CanonicalQuote{cq("a", 100), cq("b", 101), cq("c", 99), cq("d", 1000)}

	median, err := Median{}.Aggregate(quotes, nil)
	require.NoError(t, err)
	assert.True(t, median.Equal(decimal.NewFromFloat(100.5)))

	mean, err := WeightedMean{}.Aggregate(quotes, nil)
	require.NoError(t, err)
	assert.True(t, mean.Equal(decimal.NewFromFloat(325)))
}

func TestMedian_PermutationInvariant(t *testing.T) {
	a := []quote.CanonicalQuote{cq("a", 5), cq("b", 1), cq("c", 3)}
	b := []quote.CanonicalQuote{cq("c", 3), cq("a", 5), cq("b", 1)}

	pa, err := Median{}.Aggregate(a, nil)
	require.NoError(t, err)
	pb, err := Median{}.Aggregate(b, nil)
	require.NoError(t, err)
	assert.True(t, pa.Equal(pb))
}

func TestTrimmedMean_DropsExtremes(t *testing.T) {
	strategy, err := NewTrimmedMean(0.20)
	require.NoError(t, err)

	quotes := []quote.CanonicalQuote{cq("a", 10), cq("b", 98), cq("c", 100), cq("d", 102), cq("e", 500)}
	price, err := strategy.Aggregate(quotes, nil)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(100)))
}

func TestTrimmedMean_ZeroFractionEqualsWeightedMean(t *testing.T) {
	strategy, err := NewTrimmedMean(0)
	require.NoError(t, err)

	quotes := []quote.CanonicalQuote{cq("a", 10), cq("b", 20), cq("c", 30), cq("d", 40), cq("e", 50)}
	trimmed, err := strategy.Aggregate(quotes, nil)
	require.NoError(t, err)
	weighted, err := WeightedMean{}.Aggregate(quotes, nil)
	require.NoError(t, err)
	assert.True(t, trimmed.Equal(weighted))
}

func TestTrimmedMean_FallsBackBelowThreeElements(t *testing.T) {
	strategy, err := NewTrimmedMean(0.20)
	require.NoError(t, err)

	quotes := []quote.CanonicalQuote{cq("a", 10), cq("b", 20)}
	trimmed, err := strategy.Aggregate(quotes, nil)
	require.NoError(t, err)
	weighted, err := WeightedMean{}.Aggregate(quotes, nil)
	require.NoError(t, err)
	assert.True(t, trimmed.Equal(weighted))
}

func TestTrimmedMean_RejectsInvalidFraction(t *testing.T) {
	_, err := NewTrimmedMean(0.5)
	assert.ErrorIs(t, err, ErrInvalidTrimFraction)

	_, err = NewTrimmedMean(-0.1)
	assert.ErrorIs(t, err, ErrInvalidTrimFraction)
}

func TestEqualPrices_EveryStrategyReturnsExactly(t *testing.T) {
	quotes := []quote.CanonicalQuote{cq("a", 42), cq("b", 42), cq("c", 42), cq("d", 42)}

	for _, strategy := range []Strategy{WeightedMean{}, Median{}, mustTrimmed(t, 0.2)} {
		price, err := strategy.Aggregate(quotes, nil)
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.NewFromInt(42)), "method %s", strategy.Method())
	}
}

func mustTrimmed(t *testing.T, fraction float64) TrimmedMean {
	t.Helper()
	strategy, err := NewTrimmedMean(fraction)
	require.NoError(t, err)
	return strategy
}

func TestSingleElement_YieldsThatPrice(t *testing.T) {
	quotes := []quote.CanonicalQuote{cq("a", 77)}
	for _, strategy := range []Strategy{WeightedMean{}, Median{}, mustTrimmed(t, 0.2)} {
		price, err := strategy.Aggregate(quotes, nil)
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.NewFromInt(77)), "method %s", strategy.Method())
	}
}

func TestOutlierResistance_ReplacingExtremeLeavesMedianAndTrimmedMeanUnmoved(t *testing.T) {
	base := []quote.CanonicalQuote{cq("a", 98), cq("b", 99), cq("c", 100), cq("d", 101), cq("e", 102)}
	withOutlier := []quote.CanonicalQuote{cq("a", 98), cq("b", 99), cq("c", 100), cq("d", 101), cq("e", 1_000_000)}

	medianBase, err := Median{}.Aggregate(base, nil)
	require.NoError(t, err)
	medianOutlier, err := Median{}.Aggregate(withOutlier, nil)
	require.NoError(t, err)
	assert.True(t, medianBase.Equal(medianOutlier))

	trimmed := mustTrimmed(t, 0.2)
	trimmedBase, err := trimmed.Aggregate(base, nil)
	require.NoError(t, err)
	trimmedOutlier, err := trimmed.Aggregate(withOutlier, nil)
	require.NoError(t, err)
	assert.True(t, trimmedBase.Equal(trimmedOutlier))
}
