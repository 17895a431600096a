// This file contains methods for per-document IssuerState entities.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// IssuerState holds the issuer pointers and revocation stamp for one document.
// An empty issuer field means "not set". RevokedAt of zero means not revoked.
type IssuerState struct {
	DocumentID    string
	DefaultIssuer string
	OwnerIssuer   string
	RevokedAt     int64 // Unix seconds, 0 if not revoked
	UpdatedAt     time.Time
}

// GetIssuerState retrieves the issuer state for a document.
func (s *Store) GetIssuerState(documentID string) (*IssuerState, error) {
	row := s.db.QueryRow(
		`SELECT document_id, default_issuer, owner_issuer, revoked_at, updated_at
		FROM issuer_states WHERE document_id = ?`,
		documentID,
	)

	var st IssuerState
	var updatedAt int64
	err := row.Scan(&st.DocumentID, &st.DefaultIssuer, &st.OwnerIssuer, &st.RevokedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("issuer state not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan issuer state: %w", err)
	}
	st.UpdatedAt = time.Unix(updatedAt, 0)
	return &st, nil
}

// SaveIssuerState upserts the full issuer state row for a document.
// The issuer authority computes transitions; this method only persists them.
func (s *Store) SaveIssuerState(st *IssuerState) error {
	now := time.Now()
	st.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO issuer_states (document_id, default_issuer, owner_issuer, revoked_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			default_issuer = excluded.default_issuer,
			owner_issuer = excluded.owner_issuer,
			revoked_at = excluded.revoked_at,
			updated_at = excluded.updated_at
	`, st.DocumentID, st.DefaultIssuer, st.OwnerIssuer, st.RevokedAt, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to save issuer state: %w", err)
	}
	return nil
}
