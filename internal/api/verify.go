package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/capability"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/provider"
)

// ----- Verification Types -----

type verifyRequest struct {
	// ProviderID selects the registered verification provider.
	ProviderID string `json:"providerId"`
	// Kind selects the proof format when the provider record does not
	// pin one: "ledger-record" (default) or "credential".
	Kind string `json:"kind,omitempty"`
	// Proof is the opaque proof blob, format owned by the provider.
	Proof json.RawMessage `json:"proof"`
	// Recipient is the address the proof must be bound to.
	Recipient string `json:"recipient"`
	// DocumentID is the document the capabilities apply to.
	DocumentID string `json:"documentId"`
	// Required names capabilities the caller intends to exercise,
	// e.g. "view|claim". Informational; sufficiency is the caller's test.
	Required string `json:"required,omitempty"`
}

type verifyResponse struct {
	Verified     bool     `json:"verified"`
	Capabilities []string `json:"capabilities"`
	Mask         uint64   `json:"mask"`
	Sufficient   *bool    `json:"sufficient,omitempty"`
}

// handleVerify answers a capability question. Verification is a query: bad
// proofs, unknown providers, and tampered registrations all produce
// verified=false with 200, never an error status. The call runs under the
// governor-configured budget so a slow provider cannot stall the caller.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.ProviderID == "" || req.Recipient == "" || req.DocumentID == "" {
		writeError(w, r, http.StatusBadRequest, "providerId, recipient, and documentId are required")
		return
	}

	var required capability.Mask
	if req.Required != "" {
		m, err := capability.Parse(req.Required)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "Invalid required capabilities: "+err.Error())
			return
		}
		required = m
	}

	// Graceful degradation: a provider that cannot be trusted resolves to
	// no provider at all, and the answer is simply "not verified".
	if _, ok := s.registry.Lookup(req.ProviderID); !ok {
		writeJSON(w, http.StatusOK, verifyResult(false, capability.None, required))
		return
	}

	kind := provider.Kind(req.Kind)
	if kind == "" {
		kind = provider.KindLedgerRecord
	}
	p, ok := s.providerFor(kind)
	if !ok {
		writeJSON(w, http.StatusOK, verifyResult(false, capability.None, required))
		return
	}

	// A JSON string proof (bare UID or compact JWS) arrives quoted; unwrap
	// it before handing the raw bytes to the provider.
	proof := []byte(req.Proof)
	if len(proof) > 0 && proof[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(proof, &unquoted); err == nil {
			proof = []byte(unquoted)
		}
	}

	budget, err := s.store.CallBudget()
	if err != nil || budget <= 0 {
		writeJSON(w, http.StatusOK, verifyResult(false, capability.None, required))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), budget)
	defer cancel()

	verified, caps := p.VerifyCapabilities(ctx, proof, req.Recipient, req.DocumentID, required)
	writeJSON(w, http.StatusOK, verifyResult(verified, caps, required))
}

func verifyResult(verified bool, caps, required capability.Mask) verifyResponse {
	resp := verifyResponse{
		Verified:     verified,
		Capabilities: caps.Names(),
		Mask:         uint64(caps),
	}
	if required != capability.None {
		sufficient := verified && caps.Has(required)
		resp.Sufficient = &sufficient
	}
	return resp
}
