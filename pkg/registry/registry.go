// Package registry maps provider identifiers to verifier addresses and
// polices the identity of the code deployed there.
//
// The registry captures a fingerprint of the verifier's executable code at
// registration and compares it on every lookup. A provider whose code has
// changed, or that has been deactivated, resolves to NONE rather than an
// error: one compromised provider must never halt unrelated operations, so
// lookup degrades gracefully and callers branch on the sentinel.
package registry

import (
	"log/slog"
	"strings"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/audit"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/ledger"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

// Registry manages provider records. Mutations are governor operations and
// fail with coded errors; Lookup is a pure read and never errors.
type Registry struct {
	store    *store.Store
	ledger   ledger.Ledger
	recorder *audit.Recorder
	logger   *slog.Logger
}

// New creates a registry. The recorder and logger may be nil.
func New(s *store.Store, l ledger.Ledger, rec *audit.Recorder, logger *slog.Logger) *Registry {
	if rec == nil {
		rec = audit.NewRecorder(nil, audit.NopEmitter{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: s, ledger: l, recorder: rec, logger: logger}
}

// Register records a new provider, capturing the code fingerprint of the
// verifier at address. Fails with DuplicateID if the ID is taken and
// InvalidAddress if no executable code lives at the address.
func (r *Registry) Register(id, address, providerType, description, actor string) (*store.ProviderRecord, error) {
	exists, err := r.store.ProviderExists(id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateID(id)
	}

	fingerprint, ok := r.ledger.CodeFingerprint(address)
	if !ok || fingerprint == "" {
		return nil, ErrInvalidAddress(address)
	}

	rec := &store.ProviderRecord{
		ID:           id,
		Address:      address,
		Fingerprint:  fingerprint,
		Active:       true,
		ProviderType: providerType,
		Description:  description,
	}
	if err := r.store.CreateProvider(rec); err != nil {
		return nil, err
	}

	r.recorder.Record(audit.NewProviderRegister(actor, id, address, fingerprint))
	r.logger.Info("provider registered",
		"provider", id,
		"address", address,
		"fingerprint", fingerprint,
		"type", providerType,
	)
	return rec, nil
}

// Lookup resolves a provider ID to its verifier address.
//
// Returns ok=false when the ID is unknown, the record is inactive, or the
// live code fingerprint no longer equals the one captured at registration
// (detects proxy-upgrade and address-replacement attacks). Callers must
// branch on the sentinel; this path never aborts.
func (r *Registry) Lookup(id string) (address string, ok bool) {
	rec, err := r.store.GetProvider(id)
	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			r.logger.Error("provider lookup failed", "provider", id, "error", err)
		}
		return "", false
	}
	if !rec.Active {
		return "", false
	}

	live, ok := r.ledger.CodeFingerprint(rec.Address)
	if !ok || live != rec.Fingerprint {
		r.logger.Warn("provider code fingerprint mismatch",
			"provider", id,
			"address", rec.Address,
			"captured", rec.Fingerprint,
			"live", live,
		)
		return "", false
	}
	return rec.Address, true
}

// Get returns the raw provider record for display. Unlike Lookup it does not
// apply the fingerprint or activity checks.
func (r *Registry) Get(id string) (*store.ProviderRecord, error) {
	rec, err := r.store.GetProvider(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, ErrNotFound(id)
		}
		return nil, err
	}
	return rec, nil
}

// Deactivate disables a provider. Idempotent: deactivating an inactive
// provider changes nothing and emits no second event.
func (r *Registry) Deactivate(id, reason, actor string) error {
	rec, err := r.Get(id)
	if err != nil {
		return err
	}
	if !rec.Active {
		return nil
	}

	if err := r.store.SetProviderActive(id, false, &reason); err != nil {
		return err
	}
	r.recorder.Record(audit.NewProviderDeactivate(actor, id, reason))
	r.logger.Warn("provider deactivated", "provider", id, "reason", reason)
	return nil
}

// Reactivate re-enables a provider after re-validating its code fingerprint.
// Fails with CodeChanged if the deployed code no longer matches what was
// captured at registration, preventing silent reactivation of a compromised
// provider.
func (r *Registry) Reactivate(id, actor string) error {
	rec, err := r.Get(id)
	if err != nil {
		return err
	}
	if rec.Active {
		return nil
	}

	live, ok := r.ledger.CodeFingerprint(rec.Address)
	if !ok || live != rec.Fingerprint {
		return ErrCodeChangedSince(id)
	}

	if err := r.store.SetProviderActive(id, true, nil); err != nil {
		return err
	}
	r.recorder.Record(audit.NewProviderReactivate(actor, id, rec.Fingerprint))
	r.logger.Info("provider reactivated", "provider", id)
	return nil
}

// List returns provider records windowed by offset and limit.
func (r *Registry) List(offset, limit int) ([]*store.ProviderRecord, error) {
	return r.store.ListProviders(offset, limit)
}

// Count returns the total number of registered providers.
func (r *Registry) Count() (int, error) {
	return r.store.CountProviders()
}
