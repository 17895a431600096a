package api

import (
	"encoding/json"
	"net/http"
	"time"
)

type settingsResponse struct {
	MaxRecordAgeSeconds int64  `json:"maxRecordAgeSeconds"`
	CallBudgetMillis    int64  `json:"callBudgetMillis"`
	ChainID             string `json:"chainId"`
	VerifierAddress     string `json:"verifierAddress"`
}

type updateSettingsRequest struct {
	MaxRecordAgeSeconds *int64 `json:"maxRecordAgeSeconds,omitempty"`
	CallBudgetMillis    *int64 `json:"callBudgetMillis,omitempty"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	maxAge, err := s.store.MaxRecordAge()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to read settings: "+err.Error())
		return
	}
	budget, err := s.store.CallBudget()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to read settings: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, settingsResponse{
		MaxRecordAgeSeconds: int64(maxAge / time.Second),
		CallBudgetMillis:    budget.Milliseconds(),
		ChainID:             s.ledger.ChainID(),
		VerifierAddress:     s.ledger.VerifierAddress(),
	})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if req.MaxRecordAgeSeconds != nil {
		if *req.MaxRecordAgeSeconds < 0 {
			writeError(w, r, http.StatusBadRequest, "maxRecordAgeSeconds must not be negative")
			return
		}
		if err := s.store.SetMaxRecordAge(time.Duration(*req.MaxRecordAgeSeconds) * time.Second); err != nil {
			writeError(w, r, http.StatusInternalServerError, "Failed to update settings: "+err.Error())
			return
		}
	}
	if req.CallBudgetMillis != nil {
		if *req.CallBudgetMillis <= 0 {
			writeError(w, r, http.StatusBadRequest, "callBudgetMillis must be positive")
			return
		}
		if err := s.store.SetCallBudget(time.Duration(*req.CallBudgetMillis) * time.Millisecond); err != nil {
			writeError(w, r, http.StatusInternalServerError, "Failed to update settings: "+err.Error())
			return
		}
	}

	s.handleGetSettings(w, r)
}
