// Package bloom remembers record keys emitted during extraction.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// KeySet is a probabilistic set of record keys. A key reported as new is
// always new. A key reported as seen is new with probability fpRate.
type KeySet struct {
	f     *bloom.BloomFilter
	added int
}

// NewKeySet creates a KeySet sized for n expected keys with the given false
// positive rate.
func NewKeySet(n uint, fpRate float64) *KeySet {
	return &KeySet{f: bloom.NewWithEstimates(n, fpRate)}
}

// Seen adds key and reports whether it was probably present before.
func (s *KeySet) Seen(key string) bool {
	if s.f.TestAndAddString(key) {
		return true
	}
	s.added++
	return false
}

// Len returns the number of keys Seen reported as new.
func (s *KeySet) Len() int {
	return s.added
}
