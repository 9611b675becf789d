package arena

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArena(t *testing.T) *Arena {
	t.Helper()
	a, err := New(1<<20, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}

func TestAllocSimple(t *testing.T) {
	a := newTestArena(t)

	ref, payload := a.Alloc(64)
	require.NotEqual(t, NilRef, ref)
	// Cell sizes are 8-byte aligned: 64 payload + 4 header rounds to 72.
	assert.Equal(t, 72-HeaderSize, len(payload))

	resolved, err := a.Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, len(payload), len(resolved))
}

func TestAllocPayloadIsWritable(t *testing.T) {
	a := newTestArena(t)

	ref, payload := a.Alloc(16)
	for i := range payload {
		payload[i] = byte(i)
	}
	resolved, err := a.Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, payload, resolved)
}

func TestAllocDistinctCells(t *testing.T) {
	a := newTestArena(t)

	seen := make(map[Ref]bool)
	for i := 0; i < 100; i++ {
		ref, _ := a.Alloc(32)
		require.False(t, seen[ref], "cell %#x handed out twice", ref)
		seen[ref] = true
	}
}

func TestFreeAndReuse(t *testing.T) {
	a := newTestArena(t)

	ref, _ := a.Alloc(128)
	require.NoError(t, a.Free(ref))

	// Best fit should hand the same cell back for an equal request.
	ref2, _ := a.Alloc(128)
	assert.Equal(t, ref, ref2)
}

func TestFreeErrors(t *testing.T) {
	a := newTestArena(t)

	ref, _ := a.Alloc(64)
	require.NoError(t, a.Free(ref))

	assert.ErrorIs(t, a.Free(ref), ErrDoubleFree)
	assert.ErrorIs(t, a.Free(NilRef), ErrBadRef)
	assert.ErrorIs(t, a.Free(3), ErrBadRef)               // unaligned
	assert.ErrorIs(t, a.Free(Ref(1<<30)), ErrBadRef)      // past committed end
	_, err := a.Resolve(ref)                              // freed cell
	assert.ErrorIs(t, err, ErrBadRef)
}

func TestBestFit(t *testing.T) {
	a := newTestArena(t)

	// Carve three cells separated by pins so the frees cannot coalesce,
	// then confirm a request picks the tightest fit.
	big, _ := a.Alloc(512)
	_, _ = a.Alloc(8)
	mid, _ := a.Alloc(128)
	_, _ = a.Alloc(8)
	small, _ := a.Alloc(64)
	_, _ = a.Alloc(8)

	require.NoError(t, a.Free(big))
	require.NoError(t, a.Free(small))
	require.NoError(t, a.Free(mid))

	ref, _ := a.Alloc(96)
	assert.Equal(t, mid, ref, "expected the 128-byte cell as best fit")
}

func TestSplitLeavesRemainder(t *testing.T) {
	a := newTestArena(t)

	ref, _ := a.Alloc(1024)
	_, _ = a.Alloc(8) // pin
	require.NoError(t, a.Free(ref))

	before := a.Stats()
	small, _ := a.Alloc(64)
	assert.Equal(t, ref, small, "split should reuse the free cell's start")
	assert.Equal(t, before.SplitCount+1, a.Stats().SplitCount)

	// The remainder must be reusable.
	rest, _ := a.Alloc(512)
	assert.Greater(t, rest, small)
}

func TestCoalesceForwardAndBackward(t *testing.T) {
	a := newTestArena(t)

	r1, _ := a.Alloc(64)
	r2, _ := a.Alloc(64)
	r3, _ := a.Alloc(64)
	_, _ = a.Alloc(8) // pin

	require.NoError(t, a.Free(r1))
	require.NoError(t, a.Free(r3))
	// Freeing the middle cell must merge all three into one span.
	require.NoError(t, a.Free(r2))

	s := a.Stats()
	assert.GreaterOrEqual(t, s.CoalesceForward, 1)
	assert.GreaterOrEqual(t, s.CoalesceBackward, 1)

	// The merged span is three 72-byte cells; one allocation spanning its
	// full payload (216 bytes minus one header) must land at r1.
	merged, _ := a.Alloc(212)
	assert.Equal(t, r1, merged)
}

func TestGrowOnDemand(t *testing.T) {
	a := newTestArena(t)

	committed := a.Committed()
	assert.Equal(t, PageSize, committed)

	// Larger than the first page forces growth.
	_, payload := a.Alloc(3 * PageSize)
	assert.GreaterOrEqual(t, len(payload), 3*PageSize)
	assert.Greater(t, a.Committed(), committed)
	assert.GreaterOrEqual(t, a.Stats().GrowCalls, 1)
}

func TestGrowByPagesExtendsFreeSpace(t *testing.T) {
	a := newTestArena(t)

	before := a.Stats()
	a.GrowByPages(4)
	s := a.Stats()
	assert.Equal(t, before.Committed+4*PageSize, s.Committed)
	assert.Greater(t, s.FreeBytes, before.FreeBytes)
}

func TestTruncatePages(t *testing.T) {
	a := newTestArena(t)

	a.GrowByPages(4)
	committed := a.Committed()

	require.NoError(t, a.TruncatePages(2))
	assert.Equal(t, committed-2*PageSize, a.Committed())

	// Allocate everything usable, then truncation must fail.
	free := a.Stats().FreeBytes
	_, _ = a.Alloc(int(free) - 2*HeaderSize)
	assert.ErrorIs(t, a.TruncatePages(1), ErrNotTrailingFree)
}

func TestOutOfMemoryIsFatal(t *testing.T) {
	a, err := New(2*PageSize, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Panics(t, func() {
		a.Alloc(4 * PageSize)
	}, "exhausting the reservation must panic, not error")
}

// An oversized request must never be served by truncated size math handing
// back a smaller cell than was asked for.
func TestOversizedAllocIsFatal(t *testing.T) {
	a := newTestArena(t)

	assert.Panics(t, func() {
		a.Alloc(1 << 31)
	}, "request past the int32 cell header must panic")
	assert.Panics(t, func() {
		a.Alloc(math.MaxInt)
	}, "request past the addressable range must panic")
	assert.Panics(t, func() {
		a.Alloc(a.Reserved())
	}, "request that cannot fit the reservation must panic")

	// The arena is untouched by rejected requests.
	assert.Zero(t, a.Stats().AllocCalls)
	ref, payload := a.Alloc(64)
	require.NotEqual(t, NilRef, ref)
	assert.Equal(t, 72-HeaderSize, len(payload))
}

func TestAllocRejectsNonPositive(t *testing.T) {
	a := newTestArena(t)
	assert.Panics(t, func() { a.Alloc(0) })
	assert.Panics(t, func() { a.Alloc(-1) })
}

func TestStatsAccounting(t *testing.T) {
	a := newTestArena(t)

	refs := make([]Ref, 0, 10)
	for i := 0; i < 10; i++ {
		ref, _ := a.Alloc(100)
		refs = append(refs, ref)
	}
	for _, ref := range refs {
		require.NoError(t, a.Free(ref))
	}

	s := a.Stats()
	assert.Equal(t, 10, s.AllocCalls)
	assert.Equal(t, 10, s.FreeCalls)
	assert.Equal(t, s.BytesAllocated, s.BytesFreed,
		"all cells were freed, so allocated and freed bytes must match")
}

func TestAllocationDeterminism(t *testing.T) {
	sequence := []int{64, 128, 256, 512, 128, 64, 1024}

	run := func() []Ref {
		a := newTestArena(t)
		offsets := make([]Ref, 0, len(sequence)*2)
		refs := make([]Ref, 0, len(sequence))
		for _, size := range sequence {
			ref, _ := a.Alloc(size)
			offsets = append(offsets, ref)
			refs = append(refs, ref)
		}
		for i := 0; i < len(refs); i += 2 {
			require.NoError(t, a.Free(refs[i]))
		}
		for _, size := range sequence {
			ref, _ := a.Alloc(size)
			offsets = append(offsets, ref)
		}
		return offsets
	}

	assert.Equal(t, run(), run(), "allocations must be deterministic")
}
