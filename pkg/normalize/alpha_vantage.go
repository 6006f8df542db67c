package normalize

import (
	"regexp"
	"strings"

	"github.com/pricecore/oracle-core/pkg/quote"
)

// alphaVantageIdentifiers are the source-field substrings recognized as
// AlphaVantage, matched case-insensitively after stripping whitespace,
// hyphens, and underscores.
var alphaVantageIdentifiers = []string{"alphavantage", "alpha.vantage"}

// alphaVantageSuffix strips a trailing exchange suffix such as ".US" or
// ".NASDAQ".
var alphaVantageSuffix = regexp.MustCompile(`(?i)\.(US|NYSE|NASDAQ|LSE|TSX|ASX|HK|LON)$`)

// AlphaVantage recognizes AlphaVantage-sourced raw quotes and strips
// trailing exchange suffixes from their symbols.
type AlphaVantage struct{}

var _ Normalizer = AlphaVantage{}

// Recognize implements Normalizer.
func (AlphaVantage) Recognize(raw quote.RawQuote) bool {
	return matchesIdentifier(raw.Source, alphaVantageIdentifiers)
}

// RewriteSymbol implements Normalizer.
func (AlphaVantage) RewriteSymbol(symbol string) string {
	return alphaVantageSuffix.ReplaceAllString(symbol, "")
}

// Version implements Normalizer.
func (AlphaVantage) Version() string { return "alpha_vantage/v1" }

// CanonicalSource implements Normalizer.
func (AlphaVantage) CanonicalSource() quote.Source { return quote.SourceAlphaVantage }

// matchesIdentifier normalizes source by stripping whitespace, hyphens,
// and underscores, lowercasing it, then checks it contains any
// identifier — the recognition rule shared by every variant in
// spec.md §4.1.
func matchesIdentifier(source string, identifiers []string) bool {
	normalized := stripSeparators(source)
	for _, id := range identifiers {
		if strings.Contains(normalized, stripSeparators(id)) {
			return true
		}
	}
	return false
}

func stripSeparators(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
