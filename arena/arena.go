package arena

import (
	"container/heap"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/Raiderium/RaiderTools/internal/buf"
	"github.com/Raiderium/RaiderTools/internal/check"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugArena = false

// Runtime flag for allocation logging - controlled by RAIDER_LOG_ARENA env var.
var logArena = os.Getenv("RAIDER_LOG_ARENA") != ""

const (
	// HeaderSize is the size of the per-cell header: a little-endian int32
	// holding the total cell size including the header. Positive means free,
	// negative means allocated.
	HeaderSize = 4

	// minCellSize is the minimum total cell size. Splitting never produces a
	// remainder smaller than this; undersized remainders are absorbed into
	// the allocation instead.
	minCellSize = 8

	// PageSize is the commit granule of the backing region.
	PageSize = buf.PageSize

	// DefaultReserve is the address-space reservation used when the caller
	// does not specify one.
	DefaultReserve = 64 << 20

	// regionGuard keeps the first 8 bytes of the region permanently
	// allocated so that Ref(0) can serve as the nil reference.
	regionGuard = 8

	// maxAllocSize bounds a single request so the aligned total cell size
	// still fits the int32 header. Larger requests can never be satisfied.
	maxAllocSize = math.MaxInt32 - HeaderSize - (buf.CellAlign - 1)
)

// Ref is a cell reference: the byte offset of the cell header within the
// arena region. Ref(0) is never a valid cell.
type Ref = uint32

// NilRef is the zero, never-valid cell reference.
const NilRef Ref = 0

// freeCell represents a free cell tracked by the segregated free lists.
type freeCell struct {
	off       int32 // Cell offset in the region
	size      int32 // Total size including header
	sc        int   // Size class (which heap this belongs to)
	heapIndex int   // Position in heap (for heap.Remove)
}

// freeCellHeap is a min-heap keyed on cell size. The smallest cell sits at
// the top, so best-fit within a class is a short bounded scan.
type freeCellHeap []*freeCell

func (h *freeCellHeap) Len() int { return len(*h) }

func (h *freeCellHeap) Less(i, j int) bool {
	return (*h)[i].size < (*h)[j].size
}

func (h *freeCellHeap) Swap(i, j int) {
	(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
	(*h)[i].heapIndex = i
	(*h)[j].heapIndex = j
}

func (h *freeCellHeap) Push(x any) {
	cell := x.(*freeCell) //nolint:errcheck // heap.Interface contract guarantees type
	cell.heapIndex = len(*h)
	*h = append(*h, cell)
}

func (h *freeCellHeap) Pop() any {
	old := *h
	n := len(old)
	cell := old[n-1]
	cell.heapIndex = -1
	*h = old[0 : n-1]
	return cell
}

// freeList is a size-class-specific free list.
type freeList struct {
	heap freeCellHeap
}

// Arena is a byte allocator over one contiguous reserved region. Cells carry
// a 4-byte header and are recycled through segregated per-size-class free
// lists with forward and backward coalescing. The region grows in whole
// pages and never relocates, so payload slices stay valid for the life of
// their cell.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	data    []byte // Full reservation; [0,length) is committed
	release func() error
	length  int // Committed bytes (multiple of PageSize)

	table     *sizeClassTable
	freeLists []freeList // numClasses + 1; the last holds large cells

	// O(1) free-cell lookup for coalescing: off -> cell, end-off -> off.
	byOff  map[int32]*freeCell
	endIdx map[int32]int32

	// Pool for reusing freeCell structs (eliminates allocations).
	freeCellPool sync.Pool

	stats Stats
}

// New creates an arena with the given address-space reservation in bytes
// (rounded up to whole pages; <= 0 selects DefaultReserve) and size-class
// configuration (nil selects DefaultConfig). One page is committed
// immediately.
func New(reserveBytes int, config *Config) (*Arena, error) {
	if reserveBytes <= 0 {
		reserveBytes = DefaultReserve
	}
	reserveBytes = buf.AlignPage(reserveBytes)

	if config == nil {
		config = &DefaultConfig
	}
	table := newSizeClassTable(*config)

	data, release, err := reserve(reserveBytes)
	if err != nil {
		return nil, err
	}

	a := &Arena{
		data:      data,
		release:   release,
		table:     table,
		freeLists: make([]freeList, table.NumClasses()+1),
		byOff:     make(map[int32]*freeCell, 256),
		endIdx:    make(map[int32]int32, 256),
		freeCellPool: sync.Pool{
			New: func() any {
				return &freeCell{}
			},
		},
	}

	// Commit the first page: a guard cell pinning offset 0, then one free
	// cell covering the rest of the page.
	a.length = PageSize
	buf.PutI32(a.data, 0, -regionGuard)
	a.insertFree(regionGuard, PageSize-regionGuard)

	return a, nil
}

// Close unmaps the backing region. All outstanding refs and payload slices
// become invalid.
func (a *Arena) Close() error {
	a.data = nil
	a.length = 0
	return a.release()
}

// Committed returns the committed region size in bytes.
func (a *Arena) Committed() int {
	return a.length
}

// Reserved returns the full reservation size in bytes.
func (a *Arena) Reserved() int {
	return len(a.data)
}

// Alloc allocates a cell with at least need payload bytes and returns its
// ref and payload slice. The payload may be slightly larger than requested
// (cell sizes are 8-byte aligned and never split below minCellSize).
//
// Exhausting the reservation is fatal: a real-time loop has no recovery
// from out-of-memory mid-frame, so Alloc panics instead of erroring.
func (a *Arena) Alloc(need int) (Ref, []byte) {
	if need <= 0 {
		panic(fmt.Sprintf("arena: Alloc(%d): need must be positive", need))
	}
	if need > maxAllocSize || need > len(a.data)-regionGuard-HeaderSize {
		// Unsatisfiable like any other exhaustion: never hand back a
		// smaller cell than was asked for.
		panic(fmt.Sprintf("arena: out of memory: Alloc(%d) exceeds reservation %d",
			need, len(a.data)))
	}
	a.stats.AllocCalls++

	// Debug: print stats every 25,000 allocations.
	if debugArena && a.stats.AllocCalls%25000 == 0 {
		fmt.Fprintf(os.Stderr, "[ARENA] %+v\n", a.Stats())
	}

	total := int32(buf.Align8(need + HeaderSize))
	cell := a.findFit(total)

	if cell == nil {
		pages := (int(total) + PageSize - 1) / PageSize
		a.growPages(pages)
		cell = a.findFit(total)
		if cell == nil {
			// growPages appends a free span >= total, so a missing fit here
			// means corrupted free-list state.
			panic(fmt.Sprintf("arena: no fit for %d bytes after grow", total))
		}
		a.stats.AllocSlowPath++
	} else {
		a.stats.AllocFastPath++
	}

	off := cell.off
	size := cell.size
	a.removeFree(cell)

	// Split when the remainder is still a usable cell.
	if rem := size - total; rem >= minCellSize {
		a.insertFree(off+total, rem)
		a.stats.SplitCount++
		size = total
	}

	buf.PutI32(a.data, int(off), -size)
	a.stats.BytesAllocated += int64(size)

	if logArena {
		fmt.Fprintf(os.Stderr, "[ARENA] alloc need=%d total=%d off=%d cell=%d\n",
			need, total, off, size)
	}

	payload := a.data[off+HeaderSize : off+size : off+size]
	return Ref(off), payload
}

// Free returns a cell to the free lists, coalescing with free neighbors on
// both sides.
func (a *Arena) Free(ref Ref) error {
	off := int32(ref)
	if off < regionGuard || int(off)+HeaderSize > a.length || off%buf.CellAlign != 0 {
		return fmt.Errorf("%w: Free(%#x)", ErrBadRef, ref)
	}
	raw := buf.I32(a.data, int(off))
	if raw >= 0 {
		return fmt.Errorf("%w: Free(%#x)", ErrDoubleFree, ref)
	}
	size := -raw
	if int(off+size) > a.length {
		return fmt.Errorf("%w: Free(%#x): size %d past committed end", ErrBadRef, ref, size)
	}
	a.stats.FreeCalls++
	a.stats.BytesFreed += int64(size)

	// Forward coalesce: absorb a free successor.
	next := off + size
	if int(next) < a.length && buf.I32(a.data, int(next)) > 0 {
		nc := a.byOff[next]
		check.Assertf(nc != nil, "arena: free cell at %d missing from index", next)
		size += nc.size
		a.removeFree(nc)
		a.stats.CoalesceForward++
	}

	// Backward coalesce: absorb a free predecessor ending exactly here.
	if prevOff, ok := a.endIdx[off]; ok {
		pc := a.byOff[prevOff]
		check.Assertf(pc != nil, "arena: free cell at %d missing from index", prevOff)
		size += pc.size
		a.removeFree(pc)
		off = prevOff
		a.stats.CoalesceBackward++
	}

	a.insertFree(off, size)
	return nil
}

// Resolve returns the payload slice of an allocated cell.
func (a *Arena) Resolve(ref Ref) ([]byte, error) {
	off := int32(ref)
	if off < regionGuard || int(off)+HeaderSize > a.length || off%buf.CellAlign != 0 {
		return nil, fmt.Errorf("%w: Resolve(%#x)", ErrBadRef, ref)
	}
	raw := buf.I32(a.data, int(off))
	if raw >= 0 {
		return nil, fmt.Errorf("%w: Resolve(%#x): cell is free", ErrBadRef, ref)
	}
	size := -raw
	if int(off+size) > a.length {
		return nil, fmt.Errorf("%w: Resolve(%#x)", ErrBadRef, ref)
	}
	return a.data[off+HeaderSize : off+size : off+size], nil
}

// GrowByPages commits numPages additional pages, appending them to the free
// space. Growth beyond the reservation is fatal.
func (a *Arena) GrowByPages(numPages int) {
	if numPages <= 0 {
		panic(fmt.Sprintf("arena: GrowByPages(%d): page count must be positive", numPages))
	}
	a.growPages(numPages)
}

// TruncatePages releases the trailing numPages pages back to the reserve.
// The truncated span must be entirely covered by the trailing free cell.
func (a *Arena) TruncatePages(numPages int) error {
	if numPages <= 0 {
		panic(fmt.Sprintf("arena: TruncatePages(%d): page count must be positive", numPages))
	}
	span := numPages * PageSize
	newLen := a.length - span
	if newLen < PageSize {
		return fmt.Errorf("%w: TruncatePages(%d): only %d bytes committed",
			ErrNotTrailingFree, numPages, a.length)
	}

	// The trailing cell must be free and start at or before the new end.
	tailOff, ok := a.endIdx[int32(a.length)]
	if !ok || int(tailOff) > newLen {
		return fmt.Errorf("%w: TruncatePages(%d)", ErrNotTrailingFree, numPages)
	}
	tail := a.byOff[tailOff]
	a.removeFree(tail)
	a.length = newLen
	if rem := int32(newLen) - tailOff; rem > 0 {
		a.insertFree(tailOff, rem)
	}
	a.stats.TruncateCalls++
	return nil
}

// growPages commits pages and merges the new span with a trailing free cell.
func (a *Arena) growPages(numPages int) {
	span := numPages * PageSize
	newLen := a.length + span
	if newLen > len(a.data) {
		// Deliberate design stance: out-of-memory is not recoverable in a
		// real-time loop.
		panic(fmt.Sprintf(
			"arena: out of memory: need %d committed bytes, reservation is %d",
			newLen, len(a.data)))
	}

	off := int32(a.length)
	size := int32(span)
	if prevOff, ok := a.endIdx[off]; ok {
		pc := a.byOff[prevOff]
		size += pc.size
		a.removeFree(pc)
		off = prevOff
	}
	a.length = newLen
	a.insertFree(off, size)

	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(span)

	if logArena {
		fmt.Fprintf(os.Stderr, "[ARENA] grow pages=%d committed=%d\n", numPages, a.length)
	}
}

// findFit returns the best-fitting free cell of at least total bytes,
// searching the natural size class first and escalating to larger classes
// and the large list. Returns nil when nothing fits.
func (a *Arena) findFit(total int32) *freeCell {
	for sc := a.table.getSizeClass(total); sc < len(a.freeLists); sc++ {
		h := a.freeLists[sc].heap
		if len(h) == 0 {
			continue
		}
		// A class covers a size band, so the smallest member may still be
		// too small; scan the (small) heap for the tightest fit.
		var best *freeCell
		for _, c := range h {
			if c.size >= total && (best == nil || c.size < best.size) {
				best = c
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

// insertFree records a free cell: writes its header and indexes it.
func (a *Arena) insertFree(off, size int32) {
	check.Assertf(size >= minCellSize, "arena: free cell at %d too small (%d)", off, size)
	buf.PutI32(a.data, int(off), size)

	cell := a.getFreeCell()
	cell.off = off
	cell.size = size
	cell.sc = a.table.getSizeClass(size)
	heap.Push(&a.freeLists[cell.sc].heap, cell)
	a.byOff[off] = cell
	a.endIdx[off+size] = off
}

// removeFree unindexes a free cell and recycles its bookkeeping struct.
func (a *Arena) removeFree(cell *freeCell) {
	heap.Remove(&a.freeLists[cell.sc].heap, cell.heapIndex)
	delete(a.byOff, cell.off)
	delete(a.endIdx, cell.off+cell.size)
	a.putFreeCell(cell)
}

func (a *Arena) getFreeCell() *freeCell {
	return a.freeCellPool.Get().(*freeCell) //nolint:errcheck // pool only holds *freeCell
}

func (a *Arena) putFreeCell(cell *freeCell) {
	cell.off = 0
	cell.size = 0
	cell.sc = 0
	cell.heapIndex = -1
	a.freeCellPool.Put(cell)
}
