package ingest

import (
	"context"

	"github.com/pricecore/oracle-core/pkg/quote"
)

// Ingestor is the uniform adapter the scheduler consumes: a polling
// operation returning raw quotes for a set of symbols. Implementations
// that also support streaming additionally satisfy StreamingIngestor;
// the scheduler type-asserts for it rather than requiring every
// ingestor to implement it, per spec.md §6's "consumes both via a
// uniform adapter".
type Ingestor interface {
	// Name identifies this ingestor in logs and metrics.
	Name() string
	// FetchQuotes returns the current raw quotes for symbols.
	FetchQuotes(ctx context.Context, symbols []string) ([]quote.RawQuote, error)
}

// StreamingIngestor is the optional streaming capability: a channel
// emitting RawQuote events until ctx is canceled or the channel
// closes. Malformed payloads are dropped by the implementation, never
// surfaced on the channel; WebSocketIngestor drops them without
// logging them.
type StreamingIngestor interface {
	Ingestor
	Stream(ctx context.Context) (<-chan quote.RawQuote, error)
}
