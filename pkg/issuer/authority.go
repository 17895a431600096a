// Package issuer implements the per-document issuer authority: a three-tier
// state machine deciding which signer's attestations are currently trusted
// for a document.
//
// The design separates platform-level trust provisioning from per-document
// self-sovereignty. A governor provisions default issuers; the document's
// owner can override with their own issuer, kill trust entirely, or restore
// it. Resolution priority is revoked, then owner, then default.
package issuer

import (
	"strings"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/audit"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/docregistry"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/ledger"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

// State is the issuer authority state for one document.
type State string

const (
	NoIssuer      State = "no_issuer"
	DefaultActive State = "default_active"
	OwnerActive   State = "owner_active"
	Revoked       State = "revoked"
)

// Resolution is the result of resolving the active issuer for a document.
type Resolution struct {
	Issuer     string
	IsOwnerSet bool
}

// Authority manages per-document issuer state. Mutations are atomic per
// invocation; read paths never error, they report "no issuer" instead.
type Authority struct {
	store    *store.Store
	docs     docregistry.Registry
	ledger   ledger.Ledger
	recorder *audit.Recorder
}

// NewAuthority creates an issuer authority. The recorder may be nil, in which
// case no audit events are emitted.
func NewAuthority(s *store.Store, docs docregistry.Registry, l ledger.Ledger, rec *audit.Recorder) *Authority {
	if rec == nil {
		rec = audit.NewRecorder(nil, audit.NopEmitter{})
	}
	return &Authority{store: s, docs: docs, ledger: l, recorder: rec}
}

// SetDefaultIssuer installs the platform default issuer for a document.
// Governor role is enforced by the caller (the role-check mechanism is
// external to this core). Fails with AlreadyRevoked while a revocation is
// active: the governor must not silently undo an owner's emergency response.
func (a *Authority) SetDefaultIssuer(documentID, issuerAddr, actor string) error {
	st := a.loadState(documentID)
	if st.RevokedAt != 0 {
		return ErrAlreadyRevoked(documentID)
	}

	st.DefaultIssuer = issuerAddr
	if err := a.store.SaveIssuerState(st); err != nil {
		return err
	}
	a.recorder.Record(audit.NewIssuerDefaultSet(actor, documentID, issuerAddr))
	return nil
}

// SetOwnerIssuer installs an owner-chosen issuer, overriding the default.
// Callable from any state; clears an active revocation.
func (a *Authority) SetOwnerIssuer(documentID, issuerAddr, actor string) error {
	if err := a.requireOwner(documentID, actor); err != nil {
		return err
	}

	st := a.loadState(documentID)
	st.OwnerIssuer = issuerAddr
	st.RevokedAt = 0
	if err := a.store.SaveIssuerState(st); err != nil {
		return err
	}
	a.recorder.Record(audit.NewIssuerOwnerSet(actor, documentID, issuerAddr))
	return nil
}

// RevokeIssuer kills trust for a document: both issuer pointers are deleted
// and a revocation timestamp is stamped from the ledger's canonical clock.
// Attestations from the previously-active issuer fail immediately.
func (a *Authority) RevokeIssuer(documentID, actor string) error {
	if err := a.requireOwner(documentID, actor); err != nil {
		return err
	}

	st := a.loadState(documentID)
	if st.RevokedAt != 0 {
		return ErrAlreadyRevoked(documentID)
	}
	if st.DefaultIssuer == "" && st.OwnerIssuer == "" {
		return ErrNoActiveIssuer(documentID)
	}

	st.DefaultIssuer = ""
	st.OwnerIssuer = ""
	st.RevokedAt = a.ledger.Now().Unix()
	if err := a.store.SaveIssuerState(st); err != nil {
		return err
	}
	a.recorder.Record(audit.NewIssuerRevoke(actor, documentID))
	return nil
}

// RestoreIssuer clears a revocation and installs a new owner issuer.
// Fails with NotRevoked if the document is not currently revoked.
func (a *Authority) RestoreIssuer(documentID, issuerAddr, actor string) error {
	if err := a.requireOwner(documentID, actor); err != nil {
		return err
	}

	st := a.loadState(documentID)
	if st.RevokedAt == 0 {
		return ErrNotRevoked(documentID)
	}

	st.OwnerIssuer = issuerAddr
	st.RevokedAt = 0
	if err := a.store.SaveIssuerState(st); err != nil {
		return err
	}
	a.recorder.Record(audit.NewIssuerRestore(actor, documentID, issuerAddr))
	return nil
}

// ActiveIssuer resolves the currently trusted issuer for a document.
// Revoked wins over everything; an owner issuer overrides the default.
// ok is false when no issuer is trusted (revoked or none configured).
func (a *Authority) ActiveIssuer(documentID string) (Resolution, bool) {
	st := a.loadState(documentID)
	if st.RevokedAt != 0 {
		return Resolution{}, false
	}
	if st.OwnerIssuer != "" {
		return Resolution{Issuer: st.OwnerIssuer, IsOwnerSet: true}, true
	}
	if st.DefaultIssuer != "" {
		return Resolution{Issuer: st.DefaultIssuer}, true
	}
	return Resolution{}, false
}

// StateOf returns the current state and the raw stored row for display.
func (a *Authority) StateOf(documentID string) (State, *store.IssuerState) {
	st := a.loadState(documentID)
	switch {
	case st.RevokedAt != 0:
		return Revoked, st
	case st.OwnerIssuer != "":
		return OwnerActive, st
	case st.DefaultIssuer != "":
		return DefaultActive, st
	default:
		return NoIssuer, st
	}
}

// loadState reads the stored issuer state, treating "not found" as the empty
// state for the document.
func (a *Authority) loadState(documentID string) *store.IssuerState {
	st, err := a.store.GetIssuerState(documentID)
	if err != nil {
		return &store.IssuerState{DocumentID: documentID}
	}
	return st
}

// requireOwner verifies the actor is the document's owner or executor.
func (a *Authority) requireOwner(documentID, actor string) error {
	owner, err := a.docs.GetDocumentOwner(documentID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return ErrUnknownDocument(documentID)
		}
		return err
	}
	if actor == owner {
		return nil
	}
	executor, err := a.docs.GetDocumentExecutor(documentID)
	if err == nil && executor != "" && actor == executor {
		return nil
	}
	return ErrNotOwner(actor, documentID)
}
