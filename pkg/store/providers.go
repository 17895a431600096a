// This file contains methods for ProviderRecord entities.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ProviderRecord represents a registered attestation provider.
// Records are never physically deleted; deactivation flips the active flag
// so historical references stay resolvable.
type ProviderRecord struct {
	ID               string
	Address          string // Verifier address on the ledger
	Fingerprint      string // Code fingerprint captured at registration
	Active           bool
	ProviderType     string
	Description      string
	DeactivateReason *string
	RegisteredAt     time.Time
	UpdatedAt        time.Time
}

// CreateProvider inserts a new provider record.
func (s *Store) CreateProvider(p *ProviderRecord) error {
	now := time.Now()
	if p.RegisteredAt.IsZero() {
		p.RegisteredAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	active := 0
	if p.Active {
		active = 1
	}

	var reason sql.NullString
	if p.DeactivateReason != nil {
		reason = sql.NullString{String: *p.DeactivateReason, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO providers
		(id, address, fingerprint, active, provider_type, description, deactivate_reason, registered_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Address, p.Fingerprint, active, p.ProviderType, p.Description,
		reason, p.RegisteredAt.Unix(), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

// GetProvider retrieves a provider record by ID.
func (s *Store) GetProvider(id string) (*ProviderRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, address, fingerprint, active, provider_type, description, deactivate_reason, registered_at, updated_at
		FROM providers WHERE id = ?`,
		id,
	)
	return s.scanProvider(row)
}

// ProviderExists checks if a provider is registered under the given ID.
func (s *Store) ProviderExists(id string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM providers WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check provider existence: %w", err)
	}
	return count > 0, nil
}

// ListProviders returns provider records ordered by registration time,
// windowed by offset and limit. Enumeration is paginated because the full
// set is unbounded.
func (s *Store) ListProviders(offset, limit int) ([]*ProviderRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, address, fingerprint, active, provider_type, description, deactivate_reason, registered_at, updated_at
		FROM providers ORDER BY registered_at, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	var results []*ProviderRecord
	for rows.Next() {
		p, err := s.scanProviderRows(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// CountProviders returns the total number of registered providers.
func (s *Store) CountProviders() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM providers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count providers: %w", err)
	}
	return count, nil
}

// SetProviderActive updates the active flag and deactivation reason.
// The reason is recorded on deactivation and cleared on reactivation.
func (s *Store) SetProviderActive(id string, active bool, reason *string) error {
	now := time.Now().Unix()

	activeInt := 0
	if active {
		activeInt = 1
	}
	var nullReason sql.NullString
	if reason != nil {
		nullReason = sql.NullString{String: *reason, Valid: true}
	}

	result, err := s.db.Exec(
		`UPDATE providers SET active = ?, deactivate_reason = ?, updated_at = ? WHERE id = ?`,
		activeInt, nullReason, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update provider active flag: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("provider not found: %s", id)
	}
	return nil
}

func (s *Store) scanProvider(row *sql.Row) (*ProviderRecord, error) {
	var p ProviderRecord
	var active int
	var reason sql.NullString
	var registeredAt, updatedAt int64

	err := row.Scan(&p.ID, &p.Address, &p.Fingerprint, &active, &p.ProviderType,
		&p.Description, &reason, &registeredAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("provider not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan provider: %w", err)
	}

	p.Active = active != 0
	if reason.Valid {
		p.DeactivateReason = &reason.String
	}
	p.RegisteredAt = time.Unix(registeredAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

func (s *Store) scanProviderRows(rows *sql.Rows) (*ProviderRecord, error) {
	var p ProviderRecord
	var active int
	var reason sql.NullString
	var registeredAt, updatedAt int64

	err := rows.Scan(&p.ID, &p.Address, &p.Fingerprint, &active, &p.ProviderType,
		&p.Description, &reason, &registeredAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan provider: %w", err)
	}

	p.Active = active != 0
	if reason.Valid {
		p.DeactivateReason = &reason.String
	}
	p.RegisteredAt = time.Unix(registeredAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}
