// This file contains methods for ledger code objects (deployed verifier code
// and its fingerprints).
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// FingerprintCode returns the SHA-256 hex fingerprint of a code blob.
func FingerprintCode(code []byte) string {
	sum := sha256.Sum256(code)
	return hex.EncodeToString(sum[:])
}

// DeployCode records executable code at an address and returns its
// fingerprint. Deploying over an existing address replaces the code, which is
// exactly the upgrade scenario the registry's fingerprint check detects.
func (s *Store) DeployCode(address string, code []byte) (string, error) {
	if len(code) == 0 {
		return "", fmt.Errorf("refusing to deploy empty code at %s", address)
	}
	fp := FingerprintCode(code)

	_, err := s.db.Exec(`
		INSERT INTO code_objects (address, fingerprint, size, deployed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			size = excluded.size,
			deployed_at = excluded.deployed_at
	`, address, fp, len(code), time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("failed to deploy code: %w", err)
	}
	return fp, nil
}

// CodeFingerprint returns the fingerprint of the code at an address.
// Returns ok=false if no code is deployed there.
func (s *Store) CodeFingerprint(address string) (string, bool, error) {
	var fp string
	err := s.db.QueryRow(`SELECT fingerprint FROM code_objects WHERE address = ?`, address).Scan(&fp)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query code fingerprint: %w", err)
	}
	return fp, true, nil
}
