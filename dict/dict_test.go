package dict

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestSetAndGet(t *testing.T) {
	m := New[string, int]()

	m.Set("health", 100)
	m.Set("mana", 50)
	assert.Equal(t, 2, m.Len())

	v, ok := m.Get("health")
	require.True(t, ok)
	assert.Equal(t, 100, *v)

	_, ok = m.Get("stamina")
	assert.False(t, ok)
}

func TestSetOverwrites(t *testing.T) {
	m := New[string, int]()

	m.Set("health", 100)
	m.Set("health", 75)

	assert.Equal(t, 1, m.Len())
	v, ok := m.Get("health")
	require.True(t, ok)
	assert.Equal(t, 75, *v)
}

func TestGetReturnsMutablePointer(t *testing.T) {
	m := New[string, int]()
	m.Set("kills", 0)

	v, ok := m.Get("kills")
	require.True(t, ok)
	*v++
	*v++

	v, _ = m.Get("kills")
	assert.Equal(t, 2, *v)
}

func TestIndex(t *testing.T) {
	m := New[int, string]()
	m.Set(1, "one")

	v, err := m.Index(1)
	require.NoError(t, err)
	assert.Equal(t, "one", *v)

	_, err = m.Index(404)
	require.ErrorIs(t, err, ErrKeyNotFound)
	assert.Contains(t, err.Error(), "404", "the missing key is named")
}

func TestRemove(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 10; i++ {
		m.Set(i, i*i)
	}

	assert.True(t, m.Remove(4))
	assert.False(t, m.Remove(4), "second removal finds nothing")
	assert.Equal(t, 9, m.Len())

	_, ok := m.Get(4)
	assert.False(t, ok)
	v, ok := m.Get(5)
	require.True(t, ok)
	assert.Equal(t, 25, *v)
}

func TestSortedIterationOrder(t *testing.T) {
	m := New[int, int]()
	perm := rand.New(rand.NewSource(11)).Perm(200)
	for _, k := range perm {
		m.Set(k, k)
	}

	var keys []int
	m.Each(func(k int, _ *int) bool {
		keys = append(keys, k)
		return true
	})
	require.Len(t, keys, 200)
	assert.True(t, sort.IntsAreSorted(keys), "sorted maps iterate in key order")
}

func TestEachEarlyStop(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 10; i++ {
		m.Set(i, i)
	}

	seen := 0
	m.Each(func(int, *int) bool {
		seen++
		return seen < 3
	})
	assert.Equal(t, 3, seen)
}

func TestLinearPreservesInsertionOrder(t *testing.T) {
	m := NewLinear[string, int]()
	insertion := []string{"zulu", "alpha", "mike", "bravo"}
	for i, k := range insertion {
		m.Set(k, i)
	}
	m.Set("mike", 99)

	var keys []string
	m.Each(func(k string, _ *int) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, insertion, keys, "overwrite keeps the original position")

	v, ok := m.Get("mike")
	require.True(t, ok)
	assert.Equal(t, 99, *v)
}

func TestCustomComparator(t *testing.T) {
	// Descending order.
	m := NewFunc[int, string](func(a, b int) int { return b - a })
	for _, k := range []int{3, 1, 4, 1, 5} {
		m.Set(k, "")
	}

	var keys []int
	m.Each(func(k int, _ *string) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []int{5, 4, 3, 1}, keys)
}

func TestLinearCustomEquality(t *testing.T) {
	type vec2 struct{ x, y int }
	m := NewLinearFunc[vec2, string](func(a, b vec2) bool { return a == b })

	m.Set(vec2{1, 2}, "a")
	m.Set(vec2{1, 2}, "b")
	m.Set(vec2{2, 1}, "c")

	assert.Equal(t, 2, m.Len())
	v, ok := m.Get(vec2{1, 2})
	require.True(t, ok)
	assert.Equal(t, "b", *v)
}

func TestCollatedKeys(t *testing.T) {
	m := NewFunc[string, int](Collated(language.English))
	for _, k := range []string{"zebra", "Apple", "apple", "Zebra", "mango"} {
		m.Set(k, 0)
	}

	var keys []string
	m.Each(func(k string, _ *int) bool {
		keys = append(keys, k)
		return true
	})
	// Case variants collate adjacently instead of splitting at 'Z' < 'a'.
	assert.Equal(t, []string{"apple", "Apple", "mango", "zebra", "Zebra"}, keys)
}

func TestClear(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 100; i++ {
		m.Set(i, i)
	}
	m.Clear()

	assert.Zero(t, m.Len())
	_, ok := m.Get(50)
	assert.False(t, ok)

	m.Set(1, 1)
	assert.Equal(t, 1, m.Len())
}

func TestZeroValueMapPanics(t *testing.T) {
	var m Map[string, int]

	// A map without a key ordering cannot look anything up; in debug builds
	// the assertion names the mistake, in release builds the nil comparator
	// still panics.
	assert.Panics(t, func() {
		m.Set("a", 1)
		m.Get("a")
	})
}

type handle struct {
	released *int
}

func (h *handle) Dispose() {
	if h.released != nil {
		*h.released++
		h.released = nil
	}
}

func TestRemoveDisposesValue(t *testing.T) {
	released := 0
	m := New[string, handle]()

	m.Set("a", handle{released: &released})
	m.Set("b", handle{released: &released})
	require.Zero(t, released)

	m.Remove("a")
	assert.Equal(t, 1, released)

	// Overwriting disposes the replaced value.
	m.Set("b", handle{released: &released})
	assert.Equal(t, 2, released)

	m.Clear()
	assert.Equal(t, 3, released)
}

func TestReferenceModel(t *testing.T) {
	m := New[int, int]()
	model := map[int]int{}
	rng := rand.New(rand.NewSource(23))

	for i := 0; i < 5000; i++ {
		k := rng.Intn(300)
		switch rng.Intn(3) {
		case 0, 1:
			m.Set(k, i)
			model[k] = i
		case 2:
			assert.Equal(t, func() bool { _, ok := model[k]; return ok }(), m.Remove(k))
			delete(model, k)
		}
	}

	require.Equal(t, len(model), m.Len())
	for k, want := range model {
		v, ok := m.Get(k)
		require.True(t, ok, "key %d", k)
		assert.Equal(t, want, *v)
	}
}
