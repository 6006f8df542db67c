package normalize

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pricecore/oracle-core/pkg/quote"
)

const isoMillisLayout = "2006-01-02T15:04:05.000Z"

// BuildCanonical runs the shared validator/transformer every variant
// invokes, in the order spec.md §4.1 specifies:
//  1. reject missing fields
//  2. reject non-finite, NaN, or negative price
//  3. reject non-positive timestamp
//  4. rewrite symbol via the chosen strategy
//  5. round price to four decimals (half away from zero)
//  6. format an ISO-8601 UTC string
//  7. record audit transformations if values changed
//  8. assemble the CanonicalQuote
func BuildCanonical(raw quote.RawQuote, normalizer Normalizer) (quote.CanonicalQuote, error) {
	trimmedSymbol := strings.TrimSpace(raw.Symbol)
	trimmedSource := strings.TrimSpace(raw.Source)
	if trimmedSymbol == "" || trimmedSource == "" {
		return quote.CanonicalQuote{}, fmt.Errorf("%w: empty symbol or source", ErrValidationFailure)
	}

	if math.IsNaN(raw.Price) || math.IsInf(raw.Price, 0) || raw.Price < 0 {
		return quote.CanonicalQuote{}, fmt.Errorf("%w: invalid price %v", ErrValidationFailure, raw.Price)
	}

	if raw.Timestamp <= 0 {
		return quote.CanonicalQuote{}, fmt.Errorf("%w: invalid timestamp %d", ErrValidationFailure, raw.Timestamp)
	}

	rewrittenSymbol := canonicalizeSymbol(normalizer.RewriteSymbol(trimmedSymbol))

	rawPrice := decimal.NewFromFloat(raw.Price)
	roundedPrice := rawPrice.Round(4)

	isoTimestamp := time.UnixMilli(raw.Timestamp).UTC().Format(isoMillisLayout)

	var transformations []string
	if rewrittenSymbol != raw.Symbol {
		transformations = append(transformations, fmt.Sprintf("symbol: %s -> %s", raw.Symbol, rewrittenSymbol))
	}
	if !roundedPrice.Equal(rawPrice) {
		transformations = append(transformations, fmt.Sprintf("price: %s -> %s", rawPrice.String(), roundedPrice.String()))
	}

	return quote.CanonicalQuote{
		Symbol:            rewrittenSymbol,
		Price:             roundedPrice,
		ISOTimestamp:      isoTimestamp,
		OriginalTimestamp: raw.Timestamp,
		Source:            normalizer.CanonicalSource(),
		Audit: quote.Audit{
			OriginalSource:    raw.Source,
			OriginalSymbol:    raw.Symbol,
			NormalizedAt:      quote.NowMillis(),
			NormalizerVersion: normalizer.Version(),
			WasTransformed:    len(transformations) > 0,
			Transformations:   transformations,
		},
	}, nil
}

// canonicalizeSymbol applies the trim+uppercase residual step every
// variant performs after its own structural rewrite.
func canonicalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ParseISOTimestamp parses a CanonicalQuote's ISOTimestamp back to
// epoch milliseconds, for the round-trip property in spec.md §8.
func ParseISOTimestamp(iso string) (int64, error) {
	t, err := time.Parse(isoMillisLayout, iso)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
