package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/issuer"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

// ----- Document Types -----

type registerDocumentRequest struct {
	ID       string `json:"id"`
	Owner    string `json:"owner"`
	Executor string `json:"executor,omitempty"`
}

type documentResponse struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Executor  string `json:"executor,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

func documentToResponse(d *store.Document) documentResponse {
	return documentResponse{
		ID:        d.ID,
		Owner:     d.Owner,
		Executor:  d.Executor,
		CreatedAt: d.CreatedAt.Unix(),
	}
}

type issuerStateResponse struct {
	DocumentID    string `json:"documentId"`
	State         string `json:"state"`
	ActiveIssuer  string `json:"activeIssuer,omitempty"`
	IsOwnerSet    bool   `json:"isOwnerSet"`
	DefaultIssuer string `json:"defaultIssuer,omitempty"`
	OwnerIssuer   string `json:"ownerIssuer,omitempty"`
	RevokedAt     int64  `json:"revokedAt,omitempty"`
}

// ----- Document Handlers -----

func (s *Server) handleRegisterDocument(w http.ResponseWriter, r *http.Request) {
	var req registerDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.ID == "" || req.Owner == "" {
		writeError(w, r, http.StatusBadRequest, "ID and owner are required")
		return
	}

	doc := &store.Document{ID: req.ID, Owner: req.Owner, Executor: req.Executor}
	if err := s.store.UpsertDocument(doc); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to register document: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, documentToResponse(doc))
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to list documents: "+err.Error())
		return
	}
	result := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		result = append(result, documentToResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": result})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.GetDocument(r.PathValue("id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, r, http.StatusNotFound, "Document not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "Failed to get document: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// ----- Issuer Authority Handlers -----

func (s *Server) handleGetIssuerState(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	state, st := s.authority.StateOf(documentID)

	resp := issuerStateResponse{
		DocumentID: documentID,
		State:      string(state),
	}
	if st != nil {
		resp.DefaultIssuer = st.DefaultIssuer
		resp.OwnerIssuer = st.OwnerIssuer
		resp.RevokedAt = st.RevokedAt
	}
	if res, ok := s.authority.ActiveIssuer(documentID); ok {
		resp.ActiveIssuer = res.Issuer
		resp.IsOwnerSet = res.IsOwnerSet
	}
	writeJSON(w, http.StatusOK, resp)
}

type setIssuerRequest struct {
	Issuer string `json:"issuer"`
}

func (s *Server) handleSetDefaultIssuer(w http.ResponseWriter, r *http.Request) {
	var req setIssuerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Issuer == "" {
		writeError(w, r, http.StatusBadRequest, "Issuer is required")
		return
	}
	if err := s.authority.SetDefaultIssuer(r.PathValue("id"), req.Issuer, actor(r)); err != nil {
		writeCodedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "default issuer set"})
}

func (s *Server) handleSetOwnerIssuer(w http.ResponseWriter, r *http.Request) {
	var req setIssuerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Issuer == "" {
		writeError(w, r, http.StatusBadRequest, "Issuer is required")
		return
	}
	if err := s.authority.SetOwnerIssuer(r.PathValue("id"), req.Issuer, actor(r)); err != nil {
		writeCodedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "owner issuer set"})
}

func (s *Server) handleRevokeIssuer(w http.ResponseWriter, r *http.Request) {
	if err := s.authority.RevokeIssuer(r.PathValue("id"), actor(r)); err != nil {
		writeCodedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(issuer.Revoked)})
}

func (s *Server) handleRestoreIssuer(w http.ResponseWriter, r *http.Request) {
	var req setIssuerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Issuer == "" {
		writeError(w, r, http.StatusBadRequest, "Issuer is required")
		return
	}
	if err := s.authority.RestoreIssuer(r.PathValue("id"), req.Issuer, actor(r)); err != nil {
		writeCodedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
