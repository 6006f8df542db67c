package normalize

import "github.com/pricecore/oracle-core/pkg/quote"

// Normalizer is the capability set every source-identified strategy
// carries. This replaces an abstract-base-class hierarchy: instead of
// subclassing a shared base, each variant is a small value implementing
// this interface, and the shared canonical-record logic (BuildCanonical)
// is a free function parameterized by whichever variant recognized the
// quote.
type Normalizer interface {
	// Recognize reports whether this variant handles raw's source.
	Recognize(raw quote.RawQuote) bool
	// RewriteSymbol applies this variant's symbol-rewriting rule.
	RewriteSymbol(symbol string) string
	// Version identifies this variant's normalization logic for audit
	// trails; bump it when RewriteSymbol's behavior changes.
	Version() string
	// CanonicalSource is the enum value this variant emits.
	CanonicalSource() quote.Source
}

// Registry holds an ordered list of Normalizer variants and dispatches
// each raw quote to the first one whose Recognize predicate matches.
type Registry struct {
	variants []Normalizer
}

// NewRegistry builds a Registry from variants, preserving order —
// dispatch always picks the first match, so more specific variants
// should be registered before more permissive ones.
func NewRegistry(variants ...Normalizer) *Registry {
	return &Registry{variants: append([]Normalizer{}, variants...)}
}

// NewDefaultRegistry returns a Registry with the four variants required
// by spec.md §4.1, in recognition-priority order.
func NewDefaultRegistry() *Registry {
	return NewRegistry(AlphaVantage{}, Finnhub{}, YahooFinance{}, Mock{})
}

// Dispatch returns the first variant recognizing raw, or
// ErrNoNormalizerFound.
func (r *Registry) Dispatch(raw quote.RawQuote) (Normalizer, error) {
	for _, v := range r.variants {
		if v.Recognize(raw) {
			return v, nil
		}
	}
	return nil, ErrNoNormalizerFound
}

// Normalize dispatches raw to its variant and runs the Canonical Record
// Builder over it.
func (r *Registry) Normalize(raw quote.RawQuote) (quote.CanonicalQuote, error) {
	normalizer, err := r.Dispatch(raw)
	if err != nil {
		return quote.CanonicalQuote{}, err
	}
	return BuildCanonical(raw, normalizer)
}
