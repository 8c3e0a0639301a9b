package store

import (
	"context"
	"sync"
	"time"

	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
)

// MemoryStore is an in-memory Store used in offline mode and tests.
// Records keep insertion order within a collection, matching the adapter's
// order-dependent query contract.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]*memoryDoc
	now         func() time.Time
}

type memoryDoc struct {
	id        string
	body      map[string]any
	createdAt time.Time
	updatedAt time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]*memoryDoc),
		now:         time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

// Seed inserts fixture records, preserving a caller-provided id if present
func (s *MemoryStore) Seed(collection string, records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		id, _ := record["id"].(string)
		if id == "" {
			id, _ = generateID()
		}
		body := make(map[string]any, len(record))
		for k, v := range record {
			if k == "id" || k == "createdAt" || k == "updatedAt" {
				continue
			}
			body[k] = v
		}
		now := s.now()
		s.collections[collection] = append(s.collections[collection], &memoryDoc{
			id:        id,
			body:      body,
			createdAt: now,
			updatedAt: now,
		})
	}

	logger.Debug("Seeded in-memory store")
}

// snapshot deep-ish copies a doc into a Record so callers cannot mutate state
func (d *memoryDoc) snapshot() Record {
	body := make(map[string]any, len(d.body))
	for k, v := range d.body {
		body[k] = v
	}
	return assemble(d.id, body, d.createdAt, d.updatedAt)
}

// QueryByField returns matching records in insertion order
func (s *MemoryStore) QueryByField(ctx context.Context, collection, field, value string, maxResults int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError("queryByField", collection, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, doc := range s.collections[collection] {
		if field != "" {
			fieldValue, _ := doc.body[field].(string)
			if fieldValue != value {
				continue
			}
		}
		out = append(out, doc.snapshot())
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
	}
	return out, nil
}

// GetByID returns a single record or ErrDocumentNotFound
func (s *MemoryStore) GetByID(ctx context.Context, collection, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError("getById", collection, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.collections[collection] {
		if doc.id == id {
			return doc.snapshot(), nil
		}
	}
	return nil, ErrDocumentNotFound
}

// Insert stores a new record and returns its generated id
func (s *MemoryStore) Insert(ctx context.Context, collection string, record Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", storeError("insert", collection, err)
	}

	id, err := generateID()
	if err != nil {
		return "", storeError("insert", collection, err)
	}

	body := make(map[string]any, len(record))
	for k, v := range record {
		if k == "id" || k == "createdAt" || k == "updatedAt" {
			continue
		}
		body[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.collections[collection] = append(s.collections[collection], &memoryDoc{
		id:        id,
		body:      body,
		createdAt: now,
		updatedAt: now,
	})
	return id, nil
}

// Update merges partial fields into an existing record
func (s *MemoryStore) Update(ctx context.Context, collection, id string, partial Record) error {
	if err := ctx.Err(); err != nil {
		return storeError("update", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if doc.id != id {
			continue
		}
		for k, v := range partial {
			if k == "id" || k == "createdAt" || k == "updatedAt" {
				continue
			}
			doc.body[k] = v
		}
		doc.updatedAt = s.now()
		return nil
	}
	return ErrDocumentNotFound
}

// Delete removes a record by id
func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return storeError("delete", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if doc.id == id {
			s.collections[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrDocumentNotFound
}
