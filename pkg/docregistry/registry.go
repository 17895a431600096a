// Package docregistry specifies the document-registry collaborator at its
// interface boundary: ownership lookups consumed by issuer-management checks.
// Document bookkeeping itself (resolver attachment, transfer) lives outside
// the trust core.
package docregistry

import (
	"github.com/IntegraLedger/trust-documentation-sub003/pkg/store"
)

// Registry exposes the ownership queries the trust core consumes.
// Executors carry the same issuer-management rights as owners.
type Registry interface {
	// GetDocumentOwner returns the owner address of a document, or an error
	// if the document is unknown.
	GetDocumentOwner(documentID string) (string, error)

	// GetDocumentExecutor returns the executor address of a document.
	// An empty address means no executor is appointed.
	GetDocumentExecutor(documentID string) (string, error)
}

// StoreRegistry is a Registry backed by the local store's document table.
type StoreRegistry struct {
	store *store.Store
}

// NewStoreRegistry creates a store-backed document registry.
func NewStoreRegistry(s *store.Store) *StoreRegistry {
	return &StoreRegistry{store: s}
}

// GetDocumentOwner returns the owner address of a document.
func (r *StoreRegistry) GetDocumentOwner(documentID string) (string, error) {
	doc, err := r.store.GetDocument(documentID)
	if err != nil {
		return "", err
	}
	return doc.Owner, nil
}

// GetDocumentExecutor returns the executor address of a document.
func (r *StoreRegistry) GetDocumentExecutor(documentID string) (string, error) {
	doc, err := r.store.GetDocument(documentID)
	if err != nil {
		return "", err
	}
	return doc.Executor, nil
}
