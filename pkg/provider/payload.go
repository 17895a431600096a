package provider

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/capability"
)

// Payload is the decoded attestation payload. The hardened schema carries
// origin-context fields binding the claim to one network, verifier instance,
// and target contract; payloads without them fail the context checks against
// any configured verifier.
type Payload struct {
	DocumentID     string          `json:"document_id"`
	Capabilities   capability.Mask `json:"capabilities"`
	OriginChainID  string          `json:"origin_chain_id,omitempty"`
	OriginVerifier string          `json:"origin_verifier,omitempty"`
	TargetContract string          `json:"target_contract,omitempty"`
	SchemaVersion  string          `json:"schema_version,omitempty"`
	IssuedAt       int64           `json:"issued_at,omitempty"`
}

// EncodePayload serializes a payload for embedding in an attestation record.
func EncodePayload(p *Payload) ([]byte, error) {
	if p.DocumentID == "" {
		return nil, fmt.Errorf("payload requires a document_id")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return data, nil
}

// DecodePayload parses an attestation payload, rejecting blobs that do not
// match the expected field layout. Unknown fields are rejected rather than
// ignored so a payload from an incompatible layout cannot alias into this one.
func DecodePayload(data []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	if p.DocumentID == "" {
		return nil, fmt.Errorf("payload missing document_id")
	}
	return &p, nil
}
