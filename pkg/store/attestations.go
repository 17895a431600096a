// This file contains methods for Attestation records (the local ledger's
// attestation store).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Attestation represents a signed, timestamped claim record as stored on the
// ledger. The payload is opaque to the store; providers decode it.
type Attestation struct {
	UID       string
	Schema    string
	Issuer    string
	Recipient string
	IssuedAt  int64 // Unix seconds
	ExpiresAt int64 // Unix seconds, 0 means no expiration
	RevokedAt int64 // Unix seconds, 0 means not revoked; once set, never cleared
	Payload   []byte
}

// Revoked reports whether the record carries a revocation stamp.
func (a *Attestation) Revoked() bool {
	return a.RevokedAt != 0
}

// ExpiredAt reports whether the record is expired at the given time.
// A record with no expiration never expires.
func (a *Attestation) ExpiredAt(now time.Time) bool {
	return a.ExpiresAt != 0 && now.Unix() > a.ExpiresAt
}

// PutAttestation inserts a new attestation record.
func (s *Store) PutAttestation(a *Attestation) error {
	_, err := s.db.Exec(
		`INSERT INTO attestations (uid, schema, issuer, recipient, issued_at, expires_at, revoked_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UID, a.Schema, a.Issuer, a.Recipient, a.IssuedAt, a.ExpiresAt, a.RevokedAt, a.Payload,
	)
	if err != nil {
		return fmt.Errorf("failed to put attestation: %w", err)
	}
	return nil
}

// GetAttestation retrieves an attestation record by UID.
func (s *Store) GetAttestation(ctx context.Context, uid string) (*Attestation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT uid, schema, issuer, recipient, issued_at, expires_at, revoked_at, payload
		FROM attestations WHERE uid = ?`,
		uid,
	)

	var a Attestation
	var payload []byte
	err := row.Scan(&a.UID, &a.Schema, &a.Issuer, &a.Recipient, &a.IssuedAt, &a.ExpiresAt, &a.RevokedAt, &payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("attestation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan attestation: %w", err)
	}
	a.Payload = payload
	return &a, nil
}

// RevokeAttestation stamps a revocation time on a record. The stamp is
// permanent: revoking an already-revoked record keeps the original time.
func (s *Store) RevokeAttestation(uid string, at time.Time) error {
	result, err := s.db.Exec(
		`UPDATE attestations SET revoked_at = ? WHERE uid = ? AND revoked_at = 0`,
		at.Unix(), uid,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke attestation: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Either unknown or already revoked; distinguish for the caller.
		exists, err := s.attestationExists(uid)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("attestation not found: %s", uid)
		}
		// Already revoked: the first stamp stands.
		return nil
	}
	return nil
}

// ListAttestationsByIssuer returns all records produced by an issuer.
func (s *Store) ListAttestationsByIssuer(issuer string) ([]*Attestation, error) {
	rows, err := s.db.Query(
		`SELECT uid, schema, issuer, recipient, issued_at, expires_at, revoked_at, payload
		FROM attestations WHERE issuer = ? ORDER BY issued_at DESC`,
		issuer,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attestations by issuer: %w", err)
	}
	defer rows.Close()

	var results []*Attestation
	for rows.Next() {
		var a Attestation
		var payload []byte
		if err := rows.Scan(&a.UID, &a.Schema, &a.Issuer, &a.Recipient, &a.IssuedAt, &a.ExpiresAt, &a.RevokedAt, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan attestation: %w", err)
		}
		a.Payload = payload
		results = append(results, &a)
	}
	return results, rows.Err()
}

func (s *Store) attestationExists(uid string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM attestations WHERE uid = ?`, uid).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check attestation existence: %w", err)
	}
	return count > 0, nil
}
