// Package ledger abstracts the tamper-evident, append-only ledger the trust
// core runs against: code-identity queries, the canonical timestamp, network
// identity, and the attestation record store.
//
// The trust core never writes through this interface. Verification paths are
// snapshot reads of committed ledger state, which keeps them side-effect-free
// and safe for unlimited concurrent callers.
package ledger

import (
	"context"
	"time"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

// Ledger is the read-only view of the host ledger consumed by the registry
// and the verification pipeline.
type Ledger interface {
	// GetRecord returns the attestation record with the given UID, or an
	// error if no such record exists. The context carries the caller's
	// per-call budget.
	GetRecord(ctx context.Context, uid string) (*store.Attestation, error)

	// CodeFingerprint returns the fingerprint of the executable code at an
	// address. ok is false when no code is deployed there.
	CodeFingerprint(address string) (fingerprint string, ok bool)

	// ChainID identifies the ledger network this instance observes.
	ChainID() string

	// VerifierAddress is this system's ledger-verification-service address.
	VerifierAddress() string

	// Now returns the ledger's canonical timestamp. Verification uses this,
	// never the wall clock, so identical inputs produce identical results
	// within one ledger state.
	Now() time.Time
}
