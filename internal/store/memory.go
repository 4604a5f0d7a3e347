package store

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore keeps the list for the lifetime of the process only.
// Revisions are a counter that increments on every save.
type MemoryStore struct {
	mu      sync.Mutex
	items   []string
	version int
}

// NewMemoryStore returns a store seeded with items.
func NewMemoryStore(items ...string) *MemoryStore {
	s := &MemoryStore{}
	if len(items) > 0 {
		s.items = append([]string(nil), items...)
		s.version = 1
	}
	return s
}

// Name implements Store.
func (s *MemoryStore) Name() string { return BackendMemory }

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context) ([]string, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.items...), s.revision(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, items []string, revision string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if revision != s.revision() {
		return "", ErrRevisionConflict
	}
	s.items = append([]string{}, items...)
	s.version++
	return s.revision(), nil
}

func (s *MemoryStore) revision() string {
	if s.version == 0 {
		return ""
	}
	return strconv.Itoa(s.version)
}
