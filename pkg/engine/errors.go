// Package engine implements the Aggregation Engine: window filtering,
// validation, strategy selection, weight resolution, confidence
// scoring, and consensus emission, as specified in spec.md §4.4. The
// engine owns no mutable global state — every call is pure aside from
// the Last-Value Cache write its caller may perform with the result.
package engine

import "errors"

var (
	// ErrEmptySymbol indicates Aggregate was called with an empty symbol.
	ErrEmptySymbol = errors.New("symbol must not be empty")
	// ErrEmptyInput indicates Aggregate was called with no quotes.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidMinSources indicates minSources < 1.
	ErrInvalidMinSources = errors.New("minSources must be >= 1")
	// ErrInsufficientSources indicates fewer quotes were supplied than
	// minSources requires, before window filtering.
	ErrInsufficientSources = errors.New("fewer quotes supplied than minSources")
	// ErrInsufficientRecentSources indicates fewer quotes survived the
	// window filter than minSources requires.
	ErrInsufficientRecentSources = errors.New("fewer recent quotes than minSources after window filter")
	// ErrSymbolMismatch indicates a quote's symbol differs from the
	// requested symbol.
	ErrSymbolMismatch = errors.New("quote symbol does not match requested symbol")
	// ErrInvalidPriceValue indicates a quote's price is non-finite or
	// not strictly positive.
	ErrInvalidPriceValue = errors.New("quote price must be finite and strictly positive")
)
