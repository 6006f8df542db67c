// Package publish defines the Publisher collaborator contract of
// spec.md §6 and a minimal HTTP reference adapter. The core treats a
// Publisher's return as opaque; publishing failures are surfaced to
// scheduler logging and a metrics counter, never retried by this
// package (that's the caller's call per spec.md §7).
package publish

import "context"

// Submission is what the scheduler hands to a Publisher after a
// successful consensus and commitment digest.
type Submission struct {
	AssetID           string
	Price             string // decimal string, opaque to the publisher
	TimestampMillis   int64
	CommitmentDigest  string
	ProofDigest       string // optional; empty when no proof was computed
	ProofPublicInputs []string
}

// Receipt is a Publisher's opaque acknowledgement.
type Receipt struct {
	TxHash string
	OK     bool
}

// Publisher is the downstream publishing collaborator. Out of scope
// per spec.md §1 beyond this contract; custody and on-chain logic are
// explicit Non-goals.
type Publisher interface {
	Publish(ctx context.Context, submission Submission) (Receipt, error)
}
