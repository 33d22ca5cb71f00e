// Package bloom provides exact string-set membership with a Bloom filter
// in front of the map, so most lookups for new keys never touch the map.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set is an exact set of strings. It is not safe for concurrent use.
type Set struct {
	filter  *bloom.BloomFilter
	members map[string]struct{}
}

// NewSet creates a new Set whose filter is sized for n expected items
// with the given false positive rate.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		filter:  bloom.NewWithEstimates(n, fpRate),
		members: make(map[string]struct{}),
	}
}

// Add inserts key and reports whether it was not already present.
func (s *Set) Add(key string) bool {
	if s.Has(key) {
		return false
	}
	s.filter.AddString(key)
	s.members[key] = struct{}{}
	return true
}

// Has reports whether key has been added.
func (s *Set) Has(key string) bool {
	if !s.filter.TestString(key) {
		return false
	}
	_, ok := s.members[key]
	return ok
}

// Len returns the exact number of keys in the set.
func (s *Set) Len() int {
	return len(s.members)
}
