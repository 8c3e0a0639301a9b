// Package prefs provides the durable key-value state used by the session
// holders: the persisted session record and the persisted language
// preference. Each key is owned exclusively by one component; nothing else
// writes it.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"go.uber.org/zap"
)

// Store is a small durable string key-value store
type Store interface {
	// Get returns the stored value and whether the key exists
	Get(key string) (string, bool)

	// Set stores a value under key
	Set(key, value string) error

	// Delete removes a key; deleting an absent key is a no-op
	Delete(key string) error
}

// FileStore persists preferences as a single JSON file, loaded once at
// construction and rewritten atomically on every mutation.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStore opens (or creates) a file-backed preference store.
// A corrupt file is discarded and replaced, never fatal.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	s := &FileStore{
		path:   filepath.Join(dir, "prefs.json"),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preference file: %w", err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		logger.Warn("Discarding corrupt preference file",
			zap.String("path", s.path),
			zap.Error(err))
		s.values = make(map[string]string)
	}

	return s, nil
}

var _ Store = (*FileStore)(nil)

// Get returns the stored value and whether the key exists
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	return value, ok
}

// Set stores a value under key
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.flush()
}

// Delete removes a key; deleting an absent key is a no-op
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

// flush writes the full map through a temp file and rename so a crash
// mid-write cannot corrupt the previous state. Caller holds the lock.
func (s *FileStore) flush() error {
	data, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write preference file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace preference file: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and offline mode
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory preference store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

var _ Store = (*MemoryStore)(nil)

// Get returns the stored value and whether the key exists
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	return value, ok
}

// Set stores a value under key
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes a key
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
