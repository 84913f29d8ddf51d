// Package identity defines the records that flow through a roster sync:
// authoritative roster rows, hold lists, directory identities and the
// per-group configuration that ties them together.
//
// Every map in this package is keyed by a normalized Key. Two identifiers that
// differ only in case always produce the same Key, so callers never compare raw
// strings directly.
package identity

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Key is a case-normalized primary identifier (usually an email address).
type Key string

// NormalizeKey trims surrounding whitespace and applies Unicode case folding.
// A Caser is stateful, so each call builds its own.
func NormalizeKey(raw string) Key {
	return Key(cases.Fold().String(strings.TrimSpace(raw)))
}

// String returns the key as a plain string.
func (k Key) String() string {
	return string(k)
}

// Equal reports whether raw normalizes to k.
func (k Key) Equal(raw string) bool {
	return NormalizeKey(raw) == k
}

// KeySet is an unordered set of keys.
type KeySet map[Key]struct{}

// NewKeySet builds a set from the given keys.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set. A nil set contains nothing.
func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k.
func (s KeySet) Add(k Key) {
	s[k] = struct{}{}
}

// Delete removes k if present.
func (s KeySet) Delete(k Key) {
	delete(s, k)
}

// Sorted returns the keys in ascending order.
func (s KeySet) Sorted() []Key {
	return SortKeys(keysOf(s))
}

// SortKeys sorts keys in place and returns them.
func SortKeys(keys []Key) []Key {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func keysOf[V any](m map[Key]V) []Key {
	keys := make([]Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
