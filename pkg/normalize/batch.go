package normalize

import "github.com/pricecore/oracle-core/pkg/quote"

// Failure carries one raw quote that failed normalization, per
// spec.md §4.1: the batch form returns (successes, failures) rather
// than raising on the first bad record.
type Failure struct {
	Raw       quote.RawQuote
	ErrKind   error
	EmittedAt int64 // epoch milliseconds
}

// NormalizeBatch runs Normalize over every raw quote, collecting
// successes and failures separately so one malformed record never
// aborts the rest of the batch.
func (r *Registry) NormalizeBatch(raws []quote.RawQuote) (successes []quote.CanonicalQuote, failures []Failure) {
	successes = make([]quote.CanonicalQuote, 0, len(raws))
	for _, raw := range raws {
		canonical, err := r.Normalize(raw)
		if err != nil {
			failures = append(failures, Failure{
				Raw:       raw,
				ErrKind:   err,
				EmittedAt: quote.NowMillis(),
			})
			continue
		}
		successes = append(successes, canonical)
	}
	return successes, failures
}

// GroupBySource groups canonical quotes by their canonical source, the
// secondary batch form spec.md §4.1 calls for.
func GroupBySource(quotes []quote.CanonicalQuote) map[quote.Source][]quote.CanonicalQuote {
	grouped := make(map[quote.Source][]quote.CanonicalQuote)
	for _, q := range quotes {
		grouped[q.Source] = append(grouped[q.Source], q)
	}
	return grouped
}

// GroupBySymbol groups canonical quotes by symbol, the shape the
// Aggregation Engine's batch operation consumes.
func GroupBySymbol(quotes []quote.CanonicalQuote) map[string][]quote.CanonicalQuote {
	grouped := make(map[string][]quote.CanonicalQuote)
	for _, q := range quotes {
		grouped[q.Symbol] = append(grouped[q.Symbol], q)
	}
	return grouped
}
