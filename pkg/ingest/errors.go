// Package ingest defines the Ingestor collaborator contract of
// spec.md §6 and provides reference adapters: a JSON-polling HTTP
// ingestor, a reconnecting WebSocket ingestor, and a deterministic
// in-memory mock used by tests and local development. None of these
// adapters is the specified scope — concrete provider transports are
// out of scope per spec.md §1 — they exist so the core is exercisable
// end to end.
package ingest

import "errors"

var (
	// ErrIngestionTimeout indicates a fetch exceeded its overall
	// timeout.
	ErrIngestionTimeout = errors.New("ingestion timeout")
	// ErrProviderError indicates the provider returned an error or a
	// malformed response.
	ErrProviderError = errors.New("provider error")
	// ErrStreamingNotSupported indicates FetchQuotes was called on a
	// push-only streaming ingestor (WebSocketIngestor), which does not
	// support polling.
	ErrStreamingNotSupported = errors.New("streaming ingestor does not support polling")
	// ErrAlreadyOpen indicates Stream was called on a WebSocketIngestor
	// already past the disconnected state.
	ErrAlreadyOpen = errors.New("websocket ingestor already open or connecting")
)
