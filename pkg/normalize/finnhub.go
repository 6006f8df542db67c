package normalize

import (
	"regexp"

	"github.com/pricecore/oracle-core/pkg/quote"
)

var finnhubIdentifiers = []string{"finnhub"}

// finnhubPrefix strips a leading "US-", "CRYPTO-", "FX-", or
// "INDICES-" prefix.
var finnhubPrefix = regexp.MustCompile(`(?i)^(US|CRYPTO|FX|INDICES)-`)

// Finnhub recognizes Finnhub-sourced raw quotes and strips leading
// asset-class prefixes from their symbols.
type Finnhub struct{}

var _ Normalizer = Finnhub{}

// Recognize implements Normalizer.
func (Finnhub) Recognize(raw quote.RawQuote) bool {
	return matchesIdentifier(raw.Source, finnhubIdentifiers)
}

// RewriteSymbol implements Normalizer.
func (Finnhub) RewriteSymbol(symbol string) string {
	return finnhubPrefix.ReplaceAllString(symbol, "")
}

// Version implements Normalizer.
func (Finnhub) Version() string { return "finnhub/v1" }

// CanonicalSource implements Normalizer.
func (Finnhub) CanonicalSource() quote.Source { return quote.SourceFinnhub }
