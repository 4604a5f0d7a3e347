package store

import (
	"context"
	"sync"
)

// MockStore is a Store for tests. It records saves and can be primed with errors.
type MockStore struct {
	mu sync.Mutex

	Items    []string
	Revision string

	LoadError error
	SaveError error

	SaveCalls int
	LoadCalls int
}

// Name implements Store.
func (m *MockStore) Name() string { return "mock" }

// Load returns the primed items.
func (m *MockStore) Load(_ context.Context) ([]string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadError != nil {
		return nil, "", m.LoadError
	}
	return append([]string{}, m.Items...), m.Revision, nil
}

// Save stores items when revision matches and bumps the revision.
func (m *MockStore) Save(_ context.Context, items []string, revision string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveError != nil {
		return "", m.SaveError
	}
	if revision != m.Revision {
		return "", ErrRevisionConflict
	}
	m.Items = append([]string{}, items...)
	m.Revision += "+"
	return m.Revision, nil
}
