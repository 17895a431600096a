// This file contains methods for Document ownership records.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Document represents a registered document's ownership record.
// Executors carry the same issuer-management rights as owners.
type Document struct {
	ID        string
	Owner     string
	Executor  string // Optional; empty means no executor appointed
	CreatedAt time.Time
}

// UpsertDocument inserts or replaces a document ownership record.
func (s *Store) UpsertDocument(d *Document) error {
	now := time.Now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}

	_, err := s.db.Exec(`
		INSERT INTO documents (id, owner, executor, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner = excluded.owner,
			executor = excluded.executor
	`, d.ID, d.Owner, d.Executor, d.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document ownership record by ID.
func (s *Store) GetDocument(id string) (*Document, error) {
	row := s.db.QueryRow(
		`SELECT id, owner, executor, created_at FROM documents WHERE id = ?`, id,
	)

	var d Document
	var createdAt int64
	err := row.Scan(&d.ID, &d.Owner, &d.Executor, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	d.CreatedAt = time.Unix(createdAt, 0)
	return &d, nil
}

// ListDocuments returns all registered documents ordered by ID.
func (s *Store) ListDocuments() ([]*Document, error) {
	rows, err := s.db.Query(`SELECT id, owner, executor, created_at FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var d Document
		var createdAt int64
		if err := rows.Scan(&d.ID, &d.Owner, &d.Executor, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.CreatedAt = time.Unix(createdAt, 0)
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// ListDocumentsByActor returns IDs of documents where the actor is the owner
// or the appointed executor.
func (s *Store) ListDocumentsByActor(actor string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT id FROM documents WHERE owner = ? OR executor = ? ORDER BY id`, actor, actor,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents for actor: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
