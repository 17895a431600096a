package ledger

import (
	"context"
	"time"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

// Local is a store-backed ledger used for development and tests. Deployed
// code blobs are fingerprinted with SHA-256; attestation records live in the
// store's attestation table.
type Local struct {
	store    *store.Store
	chainID  string
	verifier string
	clock    func() time.Time
}

// NewLocal creates a local ledger view over the store with the given network
// identity and verification-service address.
func NewLocal(s *store.Store, chainID, verifierAddress string) *Local {
	return &Local{
		store:    s,
		chainID:  chainID,
		verifier: verifierAddress,
		clock:    time.Now,
	}
}

// SetClock overrides the canonical timestamp source. Tests use this to pin
// time-dependent checks.
func (l *Local) SetClock(clock func() time.Time) {
	l.clock = clock
}

// GetRecord returns the attestation record with the given UID.
func (l *Local) GetRecord(ctx context.Context, uid string) (*store.Attestation, error) {
	return l.store.GetAttestation(ctx, uid)
}

// CodeFingerprint returns the fingerprint of the code deployed at an address.
func (l *Local) CodeFingerprint(address string) (string, bool) {
	fp, ok, err := l.store.CodeFingerprint(address)
	if err != nil {
		// A store failure means code identity cannot be established;
		// callers treat that the same as no code.
		return "", false
	}
	return fp, ok
}

// ChainID identifies the ledger network.
func (l *Local) ChainID() string {
	return l.chainID
}

// VerifierAddress is the ledger-verification-service address.
func (l *Local) VerifierAddress() string {
	return l.verifier
}

// Now returns the canonical timestamp.
func (l *Local) Now() time.Time {
	return l.clock()
}

// DeployCode records code at an address and returns its fingerprint.
// Redeploying at the same address replaces the code, which is the upgrade
// scenario registry lookups detect.
func (l *Local) DeployCode(address string, code []byte) (string, error) {
	return l.store.DeployCode(address, code)
}
