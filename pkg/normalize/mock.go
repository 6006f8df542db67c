package normalize

import "github.com/pricecore/oracle-core/pkg/quote"

var mockIdentifiers = []string{"mock"}

// Mock recognizes Mock-sourced raw quotes used by tests and local
// development. It performs no structural rewrite beyond the trim+
// uppercase residual step every variant applies.
type Mock struct{}

var _ Normalizer = Mock{}

// Recognize implements Normalizer.
func (Mock) Recognize(raw quote.RawQuote) bool {
	return matchesIdentifier(raw.Source, mockIdentifiers)
}

// RewriteSymbol implements Normalizer.
func (Mock) RewriteSymbol(symbol string) string { return symbol }

// Version implements Normalizer.
func (Mock) Version() string { return "mock/v1" }

// CanonicalSource implements Normalizer.
func (Mock) CanonicalSource() quote.Source { return quote.SourceMock }
