package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

// ----- Provider Types -----

type registerProviderRequest struct {
	ID          string `json:"id"`
	Address     string `json:"address"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type providerResponse struct {
	ID           string  `json:"id"`
	Address      string  `json:"address"`
	Fingerprint  string  `json:"fingerprint"`
	Active       bool    `json:"active"`
	Type         string  `json:"type"`
	Description  string  `json:"description,omitempty"`
	Reason       *string `json:"deactivateReason,omitempty"`
	RegisteredAt int64   `json:"registeredAt"`
	UpdatedAt    int64   `json:"updatedAt"`
}

func providerToResponse(p *store.ProviderRecord) providerResponse {
	return providerResponse{
		ID:           p.ID,
		Address:      p.Address,
		Fingerprint:  p.Fingerprint,
		Active:       p.Active,
		Type:         p.ProviderType,
		Description:  p.Description,
		Reason:       p.DeactivateReason,
		RegisteredAt: p.RegisteredAt.Unix(),
		UpdatedAt:    p.UpdatedAt.Unix(),
	}
}

// ----- Provider Handlers -----

func (s *Server) handleRegisterProvider(w http.ResponseWriter, r *http.Request) {
	var req registerProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.ID == "" || req.Address == "" {
		writeError(w, r, http.StatusBadRequest, "ID and address are required")
		return
	}

	rec, err := s.registry.Register(req.ID, req.Address, req.Type, req.Description, actor(r))
	if err != nil {
		writeCodedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, providerToResponse(rec))
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	providers, err := s.registry.List(offset, limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to list providers: "+err.Error())
		return
	}
	total, err := s.registry.Count()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to count providers: "+err.Error())
		return
	}

	result := make([]providerResponse, 0, len(providers))
	for _, p := range providers {
		result = append(result, providerToResponse(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"providers": result,
		"total":     total,
	})
}

func (s *Server) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	rec, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		writeCodedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, providerToResponse(rec))
}

// handleLookupProvider resolves a provider ID to its verified address.
// Unknown, inactive, and tampered providers all produce found=false with 200;
// a lookup never aborts the caller.
func (s *Server) handleLookupProvider(w http.ResponseWriter, r *http.Request) {
	address, ok := s.registry.Lookup(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]any{
		"found":   ok,
		"address": address,
	})
}

func (s *Server) handleDeactivateProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := s.registry.Deactivate(r.PathValue("id"), req.Reason, actor(r)); err != nil {
		writeCodedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (s *Server) handleReactivateProvider(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Reactivate(r.PathValue("id"), actor(r)); err != nil {
		writeCodedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}
