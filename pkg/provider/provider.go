package provider

import (
	"context"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/capability"
)

// Kind identifies a provider's verification strategy.
type Kind string

const (
	KindLedgerRecord  Kind = "ledger-record"
	KindCredential    Kind = "credential"
	KindZeroKnowledge Kind = "zero-knowledge"
	KindOther         Kind = "other"
)

// Provider is the uniform verification contract every back-end implements.
// No implementation detail leaks across this boundary.
type Provider interface {
	// VerifyCapabilities checks whether proof authentically grants
	// capabilities on documentID to recipient. The required mask is advisory
	// context only: sufficiency is the caller's check, not the provider's.
	//
	// The result is deterministic for identical inputs against one ledger
	// state. On any check failure the result is (false, 0); this path never
	// returns an error because callers must retain control over fallback.
	VerifyCapabilities(ctx context.Context, proof []byte, recipient, documentID string, required capability.Mask) (bool, capability.Mask)

	// Schema returns the attestation schema identifier this provider accepts.
	Schema() string

	// Kind returns the provider's verification strategy.
	Kind() Kind
}

// Config carries the verifier context a provider instance is bound to.
// The context fields anchor replay and spoofing checks: a proof minted for a
// different network, verifier, or contract never verifies here.
type Config struct {
	// Schema is the attestation schema this provider accepts.
	Schema string

	// SchemaVersion is the payload layout version this provider implements.
	SchemaVersion string

	// ContractAddress is the document contract this verifier serves; payload
	// target-contract fields must match it.
	ContractAddress string

	// MaxRecordAge caps the accepted record age. Zero means unlimited.
	// Governor-configurable.
	MaxRecordAge int64 // seconds
}
