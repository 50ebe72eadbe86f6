package typekey

import "sync"

// Set is an ordered, deduplicated collection of type keys.
// Registration order is preserved; duplicates are rejected.
type Set struct {
	keys  []Key
	index map[string]struct{}
	mu    sync.RWMutex
}

// NewSet creates a new, empty key set.
func NewSet() *Set {
	return &Set{
		index: make(map[string]struct{}),
	}
}

// Register adds a key to the set.
// Returns a DuplicateKeyError if the key is already present.
func (s *Set) Register(k Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[k.value]; exists {
		return &DuplicateKeyError{Key: k}
	}

	s.index[k.value] = struct{}{}
	s.keys = append(s.keys, k)
	return nil
}

// Contains reports whether the key is present in the set.
func (s *Set) Contains(k Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[k.value]
	return ok
}

// All returns the keys in registration order.
// Each call returns an independent copy, so callers may range over the
// result repeatedly without observing later mutations.
func (s *Set) All() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Key, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of registered keys.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
