package integration

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raiderium/RaiderTools/arena"
	"github.com/Raiderium/RaiderTools/array"
	"github.com/Raiderium/RaiderTools/dict"
	"github.com/Raiderium/RaiderTools/mem"
)

// asset is a counted object with teardown, the shape most engine resources
// take: owned by a registry, observed by systems through weak references.
type asset struct {
	name     string
	refCount *int
}

func (a *asset) Finalize() {
	if a.refCount != nil {
		*a.refCount--
	}
}

// TestRegistryLifecycle drives a registry of counted assets through load,
// lookup, and unload, checking that ownership flows through the map and
// array layers without leaking or double-destroying anything.
func TestRegistryLifecycle(t *testing.T) {
	live := 0
	before := mem.ReadStats()

	registry := dict.New[string, mem.Strong[asset]]()
	load := func(name string) mem.Weak[asset] {
		live++
		s := mem.NewValue(asset{name: name, refCount: &live})
		w := s.Downgrade()
		registry.Set(name, s)
		return w
	}

	const n = 100
	watchers := make([]mem.Weak[asset], 0, n)
	for i := 0; i < n; i++ {
		watchers = append(watchers, load(fmt.Sprintf("asset-%03d", i)))
	}
	require.Equal(t, n, registry.Len())
	require.Equal(t, n, live)

	// Every watcher can reach its asset while the registry owns it.
	for _, w := range watchers {
		s, ok := w.Acquire()
		require.True(t, ok)
		s.Release()
	}

	// Unloading half the registry destroys exactly those assets.
	for i := 0; i < n; i += 2 {
		require.True(t, registry.Remove(fmt.Sprintf("asset-%03d", i)))
	}
	assert.Equal(t, n/2, live)

	dead, alive := 0, 0
	for _, w := range watchers {
		if s, ok := w.Acquire(); ok {
			alive++
			s.Release()
		} else {
			dead++
		}
	}
	assert.Equal(t, n/2, dead)
	assert.Equal(t, n/2, alive)

	registry.Clear()
	assert.Zero(t, live, "clearing the registry destroys the rest")

	for i := range watchers {
		watchers[i].Release()
	}

	d := mem.ReadStats()
	assert.Equal(t, before.Allocs+n, d.Allocs)
	assert.Equal(t, before.Finalizes+n, d.Finalizes)
	assert.Equal(t, before.Frees+n, d.Frees)
}

// TestArrayOfStrongOwnership checks that arrays act as owners: removing an
// element destroys it, moving an element between arrays does not.
func TestArrayOfStrongOwnership(t *testing.T) {
	live := 0
	newAsset := func(name string) mem.Strong[asset] {
		live++
		return mem.NewValue(asset{name: name, refCount: &live})
	}

	var active, standby array.Array[mem.Strong[asset]]
	for i := 0; i < 10; i++ {
		active.Add(newAsset(fmt.Sprintf("a%d", i)))
	}
	require.Equal(t, 10, live)

	// Transfer keeps the elements alive: ownership moves with them.
	active.MoveTo(0, 5, &standby, 0)
	assert.Equal(t, 10, live)
	assert.Equal(t, 5, active.Len())
	assert.Equal(t, 5, standby.Len())

	active.Dispose()
	assert.Equal(t, 5, live)

	standby.Dispose()
	assert.Zero(t, live)
}

// TestFrameScratchChurn mixes all four layers the way a frame loop does,
// with the arena-backed buffer and ratcheted arrays reused across frames.
func TestFrameScratchChurn(t *testing.T) {
	a, err := arena.New(8<<20, &arena.ConfigFrame)
	require.NoError(t, err)
	defer a.Close()

	scratch := array.NewBytes(a)
	scratch.SetRatchet(true)

	var order array.Array[int]
	order.SetRatchet(true)

	index := dict.New[int, int]()
	rng := rand.New(rand.NewSource(3))

	for frame := 0; frame < 200; frame++ {
		scratch.Reset()
		order.Clear()
		index.Clear()

		n := 50 + rng.Intn(200)
		for i := 0; i < n; i++ {
			v := rng.Intn(1000)
			order.Add(v)
			index.Set(v, i)
			fmt.Fprintf(scratch, "%d,", v)
		}
		array.Sort(&order)

		// Sorted order and map lookups agree with the raw data.
		for i := 1; i < order.Len(); i++ {
			require.LessOrEqual(t, *order.At(i-1), *order.At(i))
		}
		for i := 0; i < order.Len(); i++ {
			_, ok := index.Get(*order.At(i))
			require.True(t, ok)
		}
		require.NotZero(t, scratch.Len())
	}

	scratch.Release()
	s := a.Stats()
	assert.Equal(t, s.BytesAllocated, s.BytesFreed, "arena drains completely")
}
