// Package scheduler implements the Fetch Orchestrator of spec.md §4.5:
// a periodic, single-flight driver that pulls raw quotes from ingestor
// collaborators, normalizes, groups by symbol, aggregates, and hands
// results to the commitment hook and publisher, tolerating partial
// failure at every stage.
package scheduler

import "errors"

// ErrAlreadyStarted indicates a second Start call on a running
// Scheduler; per spec.md §4.5 this is a no-op with a logged warning,
// not a fatal error.
var ErrAlreadyStarted = errors.New("scheduler already started")
