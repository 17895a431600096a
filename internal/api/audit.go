package api

import (
	"net/http"
	"strconv"

	"github.com/IntegraLedger/trust-documentation-sub003/pkg/audit"
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

type auditEventResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Severity  string            `json:"severity"`
	Timestamp int64             `json:"timestamp"`
	Actor     string            `json:"actor,omitempty"`
	Subject   string            `json:"subject"`
	Details   map[string]string `json:"details,omitempty"`
}

func auditToResponse(ev *store.AuditEvent) auditEventResponse {
	return auditEventResponse{
		ID:        ev.ID,
		Type:      ev.Type,
		Severity:  audit.Severity(ev.Severity).String(),
		Timestamp: ev.Timestamp.Unix(),
		Actor:     ev.Actor,
		Subject:   ev.Subject,
		Details:   ev.Details,
	}
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 100
	}

	events, err := s.store.ListAuditEvents(limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to list audit events: "+err.Error())
		return
	}

	result := make([]auditEventResponse, 0, len(events))
	for _, ev := range events {
		result = append(result, auditToResponse(ev))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": result})
}
