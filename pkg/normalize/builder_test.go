package normalize

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricecore/oracle-core/pkg/quote"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func priceFloat(_ *testing.T, d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func TestBuildCanonical_RewritesRoundsAndRecordsAudit(t *testing.T) {
	raw := quote.RawQuote{Symbol: "AAPL.US", Price: 123.456789, Timestamp: 1_700_000_000_000, Source: "AlphaVantage"}

	canonical, err := BuildCanonical(raw, AlphaVantage{})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", canonical.Symbol)
	assert.True(t, canonical.Price.Equal(decimalFromString(t, "123.4568")))
	assert.Equal(t, quote.SourceAlphaVantage, canonical.Source)
	assert.True(t, canonical.Audit.WasTransformed)
	assert.Len(t, canonical.Audit.Transformations, 2) // symbol rewrite + price rounding
	assert.Equal(t, "AlphaVantage", canonical.Audit.OriginalSource)
	assert.Equal(t, "AAPL.US", canonical.Audit.OriginalSymbol)
}

func TestBuildCanonical_NoTransformationWhenAlreadyCanonical(t *testing.T) {
	raw := quote.RawQuote{Symbol: "AAPL", Price: 100, Timestamp: 1_700_000_000_000, Source: "mock"}

	canonical, err := BuildCanonical(raw, Mock{})
	require.NoError(t, err)

	assert.False(t, canonical.Audit.WasTransformed)
	assert.Empty(t, canonical.Audit.Transformations)
}

func TestBuildCanonical_RejectsEmptySymbolOrSource(t *testing.T) {
	_, err := BuildCanonical(quote.RawQuote{Symbol: "  ", Price: 1, Timestamp: 1, Source: "mock"}, Mock{})
	assert.ErrorIs(t, err, ErrValidationFailure)

	_, err = BuildCanonical(quote.RawQuote{Symbol: "AAPL", Price: 1, Timestamp: 1, Source: " "}, Mock{})
	assert.ErrorIs(t, err, ErrValidationFailure)
}

func TestBuildCanonical_RejectsInvalidPrice(t *testing.T) {
	cases := map[string]float64{
		"negative": -1,
		"nan":      math.NaN(),
		"inf":      math.Inf(1),
	}
	for name, price := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := BuildCanonical(quote.RawQuote{Symbol: "AAPL", Price: price, Timestamp: 1, Source: "mock"}, Mock{})
			assert.ErrorIs(t, err, ErrValidationFailure)
		})
	}
}

func TestBuildCanonical_RejectsNonPositiveTimestamp(t *testing.T) {
	_, err := BuildCanonical(quote.RawQuote{Symbol: "AAPL", Price: 1, Timestamp: 0, Source: "mock"}, Mock{})
	assert.ErrorIs(t, err, ErrValidationFailure)

	_, err = BuildCanonical(quote.RawQuote{Symbol: "AAPL", Price: 1, Timestamp: -5, Source: "mock"}, Mock{})
	assert.ErrorIs(t, err, ErrValidationFailure)
}

func TestBuildCanonical_IdempotentOnAlreadyCanonicalInput(t *testing.T) {
	raw := quote.RawQuote{Symbol: "AAPL.US", Price: 100.12345, Timestamp: 1_700_000_000_000, Source: "AlphaVantage"}

	first, err := BuildCanonical(raw, AlphaVantage{})
	require.NoError(t, err)

	// Feeding the already-canonical symbol/price back through the same
	// variant must be a fixed point: no further rewrite or rounding.
	second, err := BuildCanonical(quote.RawQuote{
		Symbol:    first.Symbol,
		Price:     priceFloat(t, first.Price),
		Timestamp: first.OriginalTimestamp,
		Source:    raw.Source,
	}, AlphaVantage{})
	require.NoError(t, err)

	assert.Equal(t, first.Symbol, second.Symbol)
	assert.True(t, first.Price.Equal(second.Price))
	assert.False(t, second.Audit.WasTransformed)
}

func TestBuildCanonical_ISOTimestampRoundTrips(t *testing.T) {
	raw := quote.RawQuote{Symbol: "AAPL", Price: 1, Timestamp: 1_700_000_123_456, Source: "mock"}

	canonical, err := BuildCanonical(raw, Mock{})
	require.NoError(t, err)

	roundTripped, err := ParseISOTimestamp(canonical.ISOTimestamp)
	require.NoError(t, err)
	assert.Equal(t, raw.Timestamp, roundTripped)
}

func TestBuildCanonical_SymbolRewriteScenarios(t *testing.T) {
	cases := []struct {
		name       string
		normalizer Normalizer
		symbol     string
		want       string
	}{
		{"alpha_vantage_exchange_suffix", AlphaVantage{}, "AAPL.US", "AAPL"},
		{"finnhub_asset_class_prefix", Finnhub{}, "US-GOOGL", "GOOGL"},
		{"yahoo_finance_index_marker", YahooFinance{}, "^DJI", "DJI"},
		{"mock_trim_and_uppercase_only", Mock{}, "  aapl  ", "AAPL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := quote.RawQuote{Symbol: tc.symbol, Price: 1, Timestamp: 1, Source: "x"}
			canonical, err := BuildCanonical(raw, tc.normalizer)
			require.NoError(t, err)
			assert.Equal(t, tc.want, canonical.Symbol)
		})
	}
}
