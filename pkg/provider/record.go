package provider

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/capability"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/issuer"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/ledger"
)

// RecordProvider verifies proofs that reference signed records on the
// ledger's attestation store. This is the default provider implementation.
type RecordProvider struct {
	ledger    ledger.Ledger
	authority *issuer.Authority
	cfg       Config
	logger    *slog.Logger
}

// NewRecordProvider creates a ledger-record provider bound to the given
// verifier context.
func NewRecordProvider(l ledger.Ledger, auth *issuer.Authority, cfg Config, logger *slog.Logger) *RecordProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordProvider{ledger: l, authority: auth, cfg: cfg, logger: logger}
}

// Schema returns the attestation schema this provider accepts.
func (p *RecordProvider) Schema() string { return p.cfg.Schema }

// Kind returns KindLedgerRecord.
func (p *RecordProvider) Kind() Kind { return KindLedgerRecord }

// recordProof is the decoded proof format: a reference to a ledger record.
type recordProof struct {
	UID string `json:"uid"`
}

// decodeRecordProof extracts the record UID from a proof blob. Accepts the
// JSON envelope {"uid": "..."} or a bare UID string.
func decodeRecordProof(proof []byte) (string, bool) {
	trimmed := strings.TrimSpace(string(proof))
	if trimmed == "" {
		return "", false
	}
	if strings.HasPrefix(trimmed, "{") {
		var rp recordProof
		if err := json.Unmarshal([]byte(trimmed), &rp); err != nil || rp.UID == "" {
			return "", false
		}
		return rp.UID, true
	}
	return trimmed, true
}

// VerifyCapabilities runs the ordered verification pipeline against the
// referenced ledger record. Each check failure short-circuits to (false, 0).
func (p *RecordProvider) VerifyCapabilities(ctx context.Context, proof []byte, recipient, documentID string, required capability.Mask) (bool, capability.Mask) {
	fail := func(step string) (bool, capability.Mask) {
		p.logger.Debug("verification failed",
			"provider_kind", string(KindLedgerRecord),
			"step", step,
			"document", documentID,
			"recipient", recipient,
			"required", required.String(),
		)
		return false, capability.None
	}

	// Decode the proof into a record reference.
	uid, ok := decodeRecordProof(proof)
	if !ok {
		return fail("decode_proof")
	}

	// Record exists. The ledger read runs under the caller's budget.
	rec, err := p.ledger.GetRecord(ctx, uid)
	if err != nil {
		return fail("record_exists")
	}
	if ctx.Err() != nil {
		return fail("budget")
	}

	now := p.ledger.Now()

	// Record not revoked.
	if rec.Revoked() {
		return fail("revoked")
	}

	// Record not expired.
	if rec.ExpiredAt(now) {
		return fail("expired")
	}

	// Record schema matches this provider's expected schema.
	if rec.Schema != p.cfg.Schema {
		return fail("schema")
	}

	// Recipient binding: a third party cannot redeem someone else's proof.
	if rec.Recipient != recipient {
		return fail("recipient")
	}

	// Budget check before the issuer state read.
	if ctx.Err() != nil {
		return fail("budget")
	}

	// Issuer is the currently-active issuer for the document.
	res, ok := p.authority.ActiveIssuer(documentID)
	if !ok || rec.Issuer != res.Issuer {
		return fail("issuer")
	}

	// Payload decodes to the expected field layout.
	pl, err := DecodePayload(rec.Payload)
	if err != nil {
		return fail("payload")
	}

	// Origin network matches: a proof minted on another network does not
	// replay here.
	if pl.OriginChainID != p.ledger.ChainID() {
		return fail("origin_chain")
	}

	// Origin verifier matches this system's verification service.
	if pl.OriginVerifier != p.ledger.VerifierAddress() {
		return fail("origin_verifier")
	}

	// Target contract matches the document contract this verifier serves.
	if pl.TargetContract != p.cfg.ContractAddress {
		return fail("target_contract")
	}

	// Payload layout version matches what this provider implements.
	if pl.SchemaVersion != p.cfg.SchemaVersion {
		return fail("schema_version")
	}

	// Decoded document matches the query.
	if pl.DocumentID != documentID {
		return fail("document")
	}

	// Optional freshness ceiling. Zero means unlimited.
	if p.cfg.MaxRecordAge > 0 {
		issuedAt := pl.IssuedAt
		if issuedAt == 0 {
			issuedAt = rec.IssuedAt
		}
		if now.Unix()-issuedAt > p.cfg.MaxRecordAge {
			return fail("max_age")
		}
	}

	return true, capability.Sanitize(pl.Capabilities)
}
