// Package market maintains the user-curated list of market product names.
package market

import "strings"

// ProductSet is an insertion-ordered set of product names. Membership is
// exact and case-sensitive.
type ProductSet struct {
	items []string
	index map[string]struct{}
}

// NewProductSet builds a set from items, dropping blanks and duplicates.
func NewProductSet(items ...string) *ProductSet {
	s := &ProductSet{index: make(map[string]struct{}, len(items))}
	s.Add(items...)
	return s
}

// Contains reports whether name is in the set.
func (s *ProductSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Add appends the names not yet present, trimming whitespace and skipping blanks.
// It returns the names that were actually added, in order.
func (s *ProductSet) Add(names ...string) []string {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	var added []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := s.index[n]; ok {
			continue
		}
		s.index[n] = struct{}{}
		s.items = append(s.items, n)
		added = append(added, n)
	}
	return added
}

// RemoveAt deletes the item at position i and returns it.
func (s *ProductSet) RemoveAt(i int) (string, bool) {
	if i < 0 || i >= len(s.items) {
		return "", false
	}
	name := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, name)
	return name, true
}

// Clear empties the set.
func (s *ProductSet) Clear() {
	s.items = nil
	s.index = make(map[string]struct{})
}

// Len returns the number of names.
func (s *ProductSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns a copy of the names in insertion order. Never nil.
func (s *ProductSet) Items() []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s.items...)
}

// Clone returns an independent copy.
func (s *ProductSet) Clone() *ProductSet {
	return NewProductSet(s.Items()...)
}

// SplitLines turns pasted text into candidate names, one per line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
