// This file contains methods for the append-only audit event log.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEvent is a persisted governance event. The log is append-only; there
// is no update or delete path.
type AuditEvent struct {
	ID        string
	Type      string
	Severity  int
	Timestamp time.Time
	Actor     string
	Subject   string
	Details   map[string]string
}

// generateEventID generates a unique ID with format "evt_" + first 8 chars of UUID.
func generateEventID() string {
	u := uuid.New().String()
	return "evt_" + u[:8]
}

// AppendAuditEvent inserts an audit event.
func (s *Store) AppendAuditEvent(ev *AuditEvent) error {
	if ev.ID == "" {
		ev.ID = generateEventID()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	var detailsJSON []byte
	var err error
	if ev.Details != nil {
		detailsJSON, err = json.Marshal(ev.Details)
		if err != nil {
			return fmt.Errorf("failed to serialize event details: %w", err)
		}
	}

	_, err = s.db.Exec(
		`INSERT INTO audit_events (id, event_type, severity, ts, actor, subject, details)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Type, ev.Severity, ev.Timestamp.Unix(), ev.Actor, ev.Subject, detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns the most recent audit events, newest first.
func (s *Store) ListAuditEvents(limit int) ([]*AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, event_type, severity, ts, actor, subject, details
		FROM audit_events ORDER BY ts DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var results []*AuditEvent
	for rows.Next() {
		var ev AuditEvent
		var ts int64
		var detailsJSON []byte
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.Severity, &ts, &ev.Actor, &ev.Subject, &detailsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		ev.Timestamp = time.Unix(ts, 0)
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &ev.Details); err != nil {
				ev.Details = nil
			}
		}
		results = append(results, &ev)
	}
	return results, rows.Err()
}
