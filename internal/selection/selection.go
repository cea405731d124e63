// Package selection holds the ordered set of elements the user has selected.
package selection

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/net/html"
)

// Store is an ordered, duplicate-free selection.
type Store struct {
	mu      sync.RWMutex
	order   []*html.Node
	members mapset.Set[*html.Node]
}

// New creates a store holding elems.
func New(elems ...*html.Node) *Store {
	s := &Store{members: mapset.NewThreadUnsafeSet[*html.Node]()}
	s.Set(elems)
	return s
}

// Get returns a copy of the selection in selection order.
func (s *Store) Get() []*html.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*html.Node, len(s.order))
	copy(out, s.order)
	return out
}

// Set replaces the selection. Nil entries and duplicates are dropped; the
// first occurrence wins.
func (s *Store) Set(elems []*html.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members.Clear()
	s.order = make([]*html.Node, 0, len(elems))
	for _, n := range elems {
		if n == nil || !s.members.Add(n) {
			continue
		}
		s.order = append(s.order, n)
	}
}

// Contains reports whether n is selected.
func (s *Store) Contains(n *html.Node) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members.Contains(n)
}

// Len returns the number of selected elements.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Clear empties the selection.
func (s *Store) Clear() {
	s.Set(nil)
}
