package normalize

import (
	"sort"
	"strings"

	"github.com/pricecore/oracle-core/pkg/quote"
)

var yahooFinanceIdentifiers = []string{"yahoofinance", "yahoo.finance", "yfinance"}

// yahooSuffixes are exchange suffixes YahooFinance appends after a dot,
// sorted longest-first so RewriteSymbol tries longer suffixes before
// shorter ones when calling stripDotSuffix.
var yahooSuffixes = sortedByLengthDesc([]string{
	"L", "T", "AX", "HK", "SI", "KS", "TW", "NS", "BO", "TO", "V", "F",
	"DE", "PA", "AS", "BR", "MC", "MI", "SW", "CO", "MX", "SA", "JK", "KL",
})

func sortedByLengthDesc(in []string) []string {
	out := append([]string{}, in...)
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// YahooFinance recognizes YahooFinance-sourced raw quotes, strips a
// leading "^" index marker, and strips a trailing dotted exchange
// suffix from a fixed set.
type YahooFinance struct{}

var _ Normalizer = YahooFinance{}

// Recognize implements Normalizer.
func (YahooFinance) Recognize(raw quote.RawQuote) bool {
	return matchesIdentifier(raw.Source, yahooFinanceIdentifiers)
}

// RewriteSymbol implements Normalizer.
func (YahooFinance) RewriteSymbol(symbol string) string {
	symbol = strings.TrimPrefix(symbol, "^")
	for _, suffix := range yahooSuffixes {
		if trimmed, ok := stripDotSuffix(symbol, suffix); ok {
			return trimmed
		}
	}
	return symbol
}

// Version implements Normalizer.
func (YahooFinance) Version() string { return "yahoo_finance/v1" }

// CanonicalSource implements Normalizer.
func (YahooFinance) CanonicalSource() quote.Source { return quote.SourceYahooFinance }

// stripDotSuffix removes a trailing ".SUFFIX" (case-insensitive) if
// present.
func stripDotSuffix(symbol, suffix string) (string, bool) {
	dotted := "." + suffix
	if len(symbol) <= len(dotted) {
		return symbol, false
	}
	tail := symbol[len(symbol)-len(dotted):]
	if strings.EqualFold(tail, dotted) {
		return symbol[:len(symbol)-len(dotted)], true
	}
	return symbol, false
}
