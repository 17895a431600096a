package provider

import (
	"context"
	"encoding/json"
	"log/slog"

	jose "github.com/go-jose/go-jose/v4"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/capability"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/issuer"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/ledger"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

// credentialAlgorithms are the JWS signature algorithms accepted for
// credential proofs.
var credentialAlgorithms = []jose.SignatureAlgorithm{jose.EdDSA, jose.ES256}

// KeyResolver resolves an issuer address to its verification key.
type KeyResolver interface {
	VerificationKey(issuerAddr string) (*jose.JSONWebKey, error)
}

// StoreKeys resolves issuer keys from the store's issuer_keys table.
type StoreKeys struct {
	store *store.Store
}

// NewStoreKeys creates a store-backed key resolver.
func NewStoreKeys(s *store.Store) *StoreKeys {
	return &StoreKeys{store: s}
}

// VerificationKey loads and parses the issuer's JWK.
func (k *StoreKeys) VerificationKey(issuerAddr string) (*jose.JSONWebKey, error) {
	keyJSON, err := k.store.GetIssuerKey(issuerAddr)
	if err != nil {
		return nil, err
	}
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON([]byte(keyJSON)); err != nil {
		return nil, err
	}
	return &jwk, nil
}

// credentialClaims is the signed claim set carried by a credential proof.
type credentialClaims struct {
	UID       string  `json:"uid,omitempty"`
	Schema    string  `json:"schema"`
	Recipient string  `json:"recipient"`
	IssuedAt  int64   `json:"issued_at"`
	ExpiresAt int64   `json:"expires_at,omitempty"`
	Payload   Payload `json:"payload"`
}

// CredentialProvider verifies offline JWS credentials signed by the
// document's active issuer. Unlike RecordProvider the claim travels with the
// proof; the ledger is consulted only for revocation of referenced records
// and for canonical time.
type CredentialProvider struct {
	ledger    ledger.Ledger
	authority *issuer.Authority
	keys      KeyResolver
	cfg       Config
	logger    *slog.Logger
}

// NewCredentialProvider creates a credential provider bound to the given
// verifier context.
func NewCredentialProvider(l ledger.Ledger, auth *issuer.Authority, keys KeyResolver, cfg Config, logger *slog.Logger) *CredentialProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialProvider{ledger: l, authority: auth, keys: keys, cfg: cfg, logger: logger}
}

// Schema returns the attestation schema this provider accepts.
func (p *CredentialProvider) Schema() string { return p.cfg.Schema }

// Kind returns KindCredential.
func (p *CredentialProvider) Kind() Kind { return KindCredential }

// VerifyCapabilities verifies the JWS signature against the document's
// active issuer key and applies the same context checks the record pipeline
// uses. Each failure short-circuits to (false, 0).
func (p *CredentialProvider) VerifyCapabilities(ctx context.Context, proof []byte, recipient, documentID string, required capability.Mask) (bool, capability.Mask) {
	fail := func(step string) (bool, capability.Mask) {
		p.logger.Debug("verification failed",
			"provider_kind", string(KindCredential),
			"step", step,
			"document", documentID,
			"recipient", recipient,
			"required", required.String(),
		)
		return false, capability.None
	}

	jws, err := jose.ParseSigned(string(proof), credentialAlgorithms)
	if err != nil {
		return fail("decode_proof")
	}

	// The active issuer for the document is the only trusted signer. A
	// revoked document resolves to no issuer, so its credentials fail here.
	res, ok := p.authority.ActiveIssuer(documentID)
	if !ok {
		return fail("issuer")
	}
	if ctx.Err() != nil {
		return fail("budget")
	}
	key, err := p.keys.VerificationKey(res.Issuer)
	if err != nil {
		return fail("issuer_key")
	}

	claimBytes, err := jws.Verify(key)
	if err != nil {
		return fail("signature")
	}

	var claims credentialClaims
	if err := json.Unmarshal(claimBytes, &claims); err != nil {
		return fail("claims")
	}

	now := p.ledger.Now()

	// A credential that references a ledger record inherits its revocation.
	if claims.UID != "" {
		if rec, err := p.ledger.GetRecord(ctx, claims.UID); err == nil && rec.Revoked() {
			return fail("revoked")
		}
	}
	if ctx.Err() != nil {
		return fail("budget")
	}

	if claims.ExpiresAt != 0 && now.Unix() > claims.ExpiresAt {
		return fail("expired")
	}
	if claims.Schema != p.cfg.Schema {
		return fail("schema")
	}
	if claims.Recipient != recipient {
		return fail("recipient")
	}

	pl := claims.Payload
	if pl.DocumentID == "" {
		return fail("payload")
	}
	if pl.OriginChainID != p.ledger.ChainID() {
		return fail("origin_chain")
	}
	if pl.OriginVerifier != p.ledger.VerifierAddress() {
		return fail("origin_verifier")
	}
	if pl.TargetContract != p.cfg.ContractAddress {
		return fail("target_contract")
	}
	if pl.SchemaVersion != p.cfg.SchemaVersion {
		return fail("schema_version")
	}
	if pl.DocumentID != documentID {
		return fail("document")
	}

	if p.cfg.MaxRecordAge > 0 {
		issuedAt := pl.IssuedAt
		if issuedAt == 0 {
			issuedAt = claims.IssuedAt
		}
		if now.Unix()-issuedAt > p.cfg.MaxRecordAge {
			return fail("max_age")
		}
	}

	return true, capability.Sanitize(pl.Capabilities)
}
