// This file contains methods for issuer verification keys used by
// credential-based providers.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SetIssuerKey stores the JSON-encoded verification key (a JWK) for an issuer.
func (s *Store) SetIssuerKey(issuer, keyJSON string) error {
	_, err := s.db.Exec(`
		INSERT INTO issuer_keys (issuer, key_json, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT(issuer) DO UPDATE SET
			key_json = excluded.key_json,
			added_at = excluded.added_at
	`, issuer, keyJSON, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set issuer key: %w", err)
	}
	return nil
}

// GetIssuerKey retrieves the JSON-encoded verification key for an issuer.
func (s *Store) GetIssuerKey(issuer string) (string, error) {
	var keyJSON string
	err := s.db.QueryRow(`SELECT key_json FROM issuer_keys WHERE issuer = ?`, issuer).Scan(&keyJSON)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("issuer key not found: %s", issuer)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query issuer key: %w", err)
	}
	return keyJSON, nil
}
