package listd

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyPath is returned when adding a blank path.
var ErrEmptyPath = errors.New("path is empty")

// Store holds the ordered copy list. Duplicates are kept.
type Store struct {
	mu    sync.RWMutex
	paths []string
}

// Add appends path to the end of the list.
func (s *Store) Add(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	return nil
}

// List returns a copy of the list in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Remove drops every entry equal to path and returns how many were removed.
func (s *Store) Remove(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]string, 0, len(s.paths))
	for _, p := range s.paths {
		if p != path {
			kept = append(kept, p)
		}
	}
	removed := len(s.paths) - len(kept)
	s.paths = kept
	return removed
}

// Clear empties the list and returns how many entries were dropped.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.paths)
	s.paths = nil
	return n
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.paths)
}
