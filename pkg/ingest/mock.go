package ingest

import (
	"context"
	"sync"

	"github.com/pricecore/oracle-core/pkg/quote"
)

// MockIngestor is a deterministic in-memory Ingestor for tests and
// local development (sources.mock in the config). Quotes are seeded by the caller and
// FetchQuotes returns whatever is currently seeded for the requested
// symbols, filtering out anything unseeded rather than erroring.
type MockIngestor struct {
	name string

	mu     sync.RWMutex
	quotes map[string][]quote.RawQuote // keyed by symbol
}

var _ Ingestor = (*MockIngestor)(nil)

// NewMockIngestor builds a MockIngestor identified by name.
func NewMockIngestor(name string) *MockIngestor {
	return &MockIngestor{name: name, quotes: make(map[string][]quote.RawQuote)}
}

// Name implements Ingestor.
func (m *MockIngestor) Name() string { return m.name }

// Seed replaces the quotes returned for symbol.
func (m *MockIngestor) Seed(symbol string, quotes ...quote.RawQuote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[symbol] = quotes
}

// FetchQuotes implements Ingestor: returns every seeded quote for the
// requested symbols, in no particular order.
func (m *MockIngestor) FetchQuotes(_ context.Context, symbols []string) ([]quote.RawQuote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []quote.RawQuote
	for _, symbol := range symbols {
		out = append(out, m.quotes[symbol]...)
	}
	return out, nil
}
