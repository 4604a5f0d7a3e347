// Package store persists the market product list.
//
// Every backend stores the list as a flat JSON array of strings and hands out an
// opaque revision token with each load. A save carrying a stale revision is
// rejected with ErrRevisionConflict; callers decide whether to reload.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendGitHub = "github"
	BackendGCS    = "gcs"
)

var (
	// ErrRevisionConflict is returned when the stored list changed since it was loaded.
	ErrRevisionConflict = errors.New("market list was modified concurrently")
	// ErrStoreNotConfigured is returned by a remote backend that lacks credentials or a location.
	ErrStoreNotConfigured = errors.New("store is not configured")
)

// Store loads and saves the market product list.
type Store interface {
	// Load returns the stored list and its revision. An absent list is empty with revision "".
	Load(ctx context.Context) (items []string, revision string, err error)
	// Save replaces the stored list if revision still matches and returns the new revision.
	Save(ctx context.Context, items []string, revision string) (newRevision string, err error)
	// Name identifies the backend in logs and errors.
	Name() string
}

// Encode serializes items as an indented JSON array. A nil list encodes as [].
func Encode(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("failed to encode market list: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a stored JSON array. Empty input and null decode as an empty list.
func Decode(data []byte) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode market list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
