// Package dict provides the associative map of the RaiderTools containers:
// key/value pairs stored in a dynamic array, either kept sorted under a
// total order on keys (binary-search lookup) or in insertion order (linear
// lookup). Storage mechanics — growth, shrink, relocation — are entirely the
// array's.
package dict

import (
	"cmp"
	"fmt"

	"github.com/Raiderium/RaiderTools/array"
	"github.com/Raiderium/RaiderTools/internal/check"
)

type entry[K, V any] struct {
	key   K
	value V
}

// Dispose forwards element destruction to the key and value, so removing an
// entry releases any counted references stored in it.
func (e *entry[K, V]) Dispose() {
	if d, ok := any(&e.key).(array.Disposer); ok {
		d.Dispose()
	}
	if d, ok := any(&e.value).(array.Disposer); ok {
		d.Dispose()
	}
}

// Map stores key/value pairs in a contiguous array. There are no duplicate
// keys: Set overwrites. Pointers returned by Get and Index, like iteration
// order positions, are invalidated by any mutation — the backing array
// relocates entries freely.
//
// Use one of the constructors; the zero value has no key ordering.
type Map[K, V any] struct {
	entries array.Array[entry[K, V]]
	cmp     func(K, K) int  // sorted mode
	eq      func(K, K) bool // linear mode
}

// New creates a sorted map over a naturally ordered key type. Lookups are
// O(log n).
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return NewFunc[K, V](cmp.Compare[K])
}

// NewFunc creates a sorted map with a custom total order on keys. compare
// must return negative, zero, or positive for a < b, a == b, a > b.
func NewFunc[K, V any](compare func(a, b K) int) *Map[K, V] {
	return &Map[K, V]{cmp: compare}
}

// NewLinear creates an unsorted map that preserves insertion order. Lookups
// are O(n); suited to small maps where entry order matters.
func NewLinear[K comparable, V any]() *Map[K, V] {
	return NewLinearFunc[K, V](func(a, b K) bool { return a == b })
}

// NewLinearFunc creates an unsorted map with a custom key equality.
func NewLinearFunc[K, V any](eq func(a, b K) bool) *Map[K, V] {
	return &Map[K, V]{eq: eq}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.entries.Len() }

// find returns the entry index for key, or the sorted insertion index with
// found = false.
func (m *Map[K, V]) find(key K) (int, bool) {
	if m.cmp != nil {
		return m.entries.Search(func(e *entry[K, V]) int { return m.cmp(e.key, key) })
	}
	check.Assertf(m.eq != nil, "dict: zero-value Map used without a constructor")
	return m.entries.Find(func(e *entry[K, V]) bool { return m.eq(e.key, key) })
}

// Set inserts or overwrites the value for key, keeping sort order in sorted
// mode and appending in linear mode. An overwritten value is disposed first
// when its type implements array.Disposer.
func (m *Map[K, V]) Set(key K, value V) {
	idx, found := m.find(key)
	if found {
		e := m.entries.At(idx)
		if d, ok := any(&e.value).(array.Disposer); ok {
			d.Dispose()
		}
		e.value = value
		return
	}
	if m.cmp != nil {
		m.entries.AddAt(entry[K, V]{key: key, value: value}, idx)
	} else {
		m.entries.Add(entry[K, V]{key: key, value: value})
	}
}

// Get returns a pointer to the stored value, or (nil, false) when the key
// is absent. Never allocates and never mutates the map.
func (m *Map[K, V]) Get(key K) (*V, bool) {
	idx, found := m.find(key)
	if !found {
		return nil, false
	}
	return &m.entries.At(idx).value, true
}

// Index is Get for callers that treat absence as an error: it returns
// ErrKeyNotFound (wrapped with the key) when the key is absent.
func (m *Map[K, V]) Index(key K) (*V, error) {
	v, ok := m.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return v, nil
}

// Remove deletes the entry for key, reporting whether it existed. The
// removed key and value are disposed when their types implement
// array.Disposer; so are all entries on Clear.
func (m *Map[K, V]) Remove(key K) bool {
	idx, found := m.find(key)
	if !found {
		return false
	}
	m.entries.RemoveRange(idx, 1)
	return true
}

// Each calls fn for every entry, in key order for sorted maps and insertion
// order for linear ones, until fn returns false. The map must not be
// mutated during iteration.
func (m *Map[K, V]) Each(fn func(key K, value *V) bool) {
	for i := 0; i < m.entries.Len(); i++ {
		e := m.entries.At(i)
		if !fn(e.key, &e.value) {
			return
		}
	}
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.entries.Clear()
}
