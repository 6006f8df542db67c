// Package aggregator implements the pluggable price aggregation laws:
// weighted mean, median, and trimmed mean. All three satisfy the same
// Strategy contract so the Aggregation Engine can dispatch on method
// name without knowing the concrete implementation.
package aggregator

import "errors"

var (
	// ErrEmptyInput indicates an aggregator was called with no quotes.
	ErrEmptyInput = errors.New("empty input")
	// ErrZeroTotalWeight indicates the weighted-mean denominator is zero.
	ErrZeroTotalWeight = errors.New("zero total weight")
	// ErrInvalidTrimFraction indicates a trim fraction outside [0, 0.5).
	ErrInvalidTrimFraction = errors.New("trim fraction must be in [0, 0.5)")
	// ErrUnknownMethod indicates the requested aggregation method has no
	// registered strategy.
	ErrUnknownMethod = errors.New("unknown aggregation method")
)
