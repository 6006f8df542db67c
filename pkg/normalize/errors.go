// Package normalize turns heterogeneous provider quotes into canonical
// records: a dispatcher picks the first Normalizer variant whose
// Recognize predicate matches a raw quote's source field, then the
// shared Canonical Record Builder validates, rewrites, and rounds it.
package normalize

import "errors"

var (
	// ErrNoNormalizerFound indicates no registered variant recognized
	// the raw quote's source.
	ErrNoNormalizerFound = errors.New("no normalizer found for source")
	// ErrValidationFailure indicates the raw quote failed a field
	// constraint (missing field, non-finite or negative price, invalid
	// timestamp, empty symbol/source).
	ErrValidationFailure = errors.New("raw quote failed validation")
)
