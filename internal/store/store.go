// Package store is the boundary to the hosted document database. It exposes
// generic collection CRUD over schema-less records; callers decode records
// into typed models at their own edge.
package store

import (
	"context"
	"errors"
	"fmt"
)

const (
	// UsersCollection holds login-capable user records
	UsersCollection = "users"

	// UpdatesCollection holds the public updates feed
	UpdatesCollection = "updates"
)

// ErrStore is the single error kind surfaced by this layer. Network,
// permission, and not-found failures are collapsed into it; callers that need
// to distinguish not-found can check ErrDocumentNotFound, which wraps ErrStore.
var ErrStore = errors.New("store error")

// ErrDocumentNotFound indicates the requested document does not exist
var ErrDocumentNotFound = fmt.Errorf("document not found: %w", ErrStore)

// storeError wraps a low-level failure into the adapter's single error kind
func storeError(operation, collection string, err error) error {
	return fmt.Errorf("%s %s: %v: %w", operation, collection, err, ErrStore)
}

// Record is a raw schema-less document plus its id under the "id" key
type Record = map[string]any

// Store is the document store adapter contract.
// Write-path operations stamp server-assigned createdAt/updatedAt timestamps.
type Store interface {
	// QueryByField returns records where a top-level field equals value.
	// An empty field returns the whole collection. maxResults of 0 means no limit.
	QueryByField(ctx context.Context, collection, field, value string, maxResults int) ([]Record, error)

	// GetByID returns a single record by id
	GetByID(ctx context.Context, collection, id string) (Record, error)

	// Insert stores a new record and returns its generated id
	Insert(ctx context.Context, collection string, record Record) (string, error)

	// Update merges partial fields into an existing record
	Update(ctx context.Context, collection, id string, partial Record) error

	// Delete removes a record by id
	Delete(ctx context.Context, collection, id string) error
}
