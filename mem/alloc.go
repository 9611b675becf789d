package mem

import (
	"reflect"
	"sync"

	"github.com/Raiderium/RaiderTools/internal/check"
)

// typeInfo caches per-referent-type facts: the recycling pool for freed
// blocks and whether the type implements Finalizer. Built once per type, on
// its first allocation, after the strong-cycle check has passed.
type typeInfo struct {
	pool      sync.Pool
	finalizes bool
}

var typeInfos sync.Map // reflect.Type -> *typeInfo

func infoFor[T any]() *typeInfo {
	t := reflect.TypeFor[T]()
	if v, ok := typeInfos.Load(t); ok {
		return v.(*typeInfo) //nolint:errcheck // map only holds *typeInfo
	}

	// First allocation of T anywhere in the process: reject strong-reference
	// cycles before a single instance exists.
	checkStrongCycles(t)

	info := &typeInfo{
		pool: sync.Pool{New: func() any { return new(box[T]) }},
	}
	_, info.finalizes = any((*T)(nil)).(Finalizer)
	v, _ := typeInfos.LoadOrStore(t, info)
	return v.(*typeInfo) //nolint:errcheck // map only holds *typeInfo
}

// New allocates a header+value block holding a zero T and returns the sole
// strong reference to it: strong count 1, weak count 1 (the implicit unit
// held while any Strong exists).
func New[T any]() Strong[T] {
	info := infoFor[T]()
	b := info.pool.Get().(*box[T]) //nolint:errcheck // pool only holds *box[T]
	b.hdr.strong.Store(1)
	b.hdr.weak.Store(1)
	statAllocs.Add(1)
	return Strong[T]{b: b}
}

// NewValue allocates like New and moves v into the block.
func NewValue[T any](v T) Strong[T] {
	s := New[T]()
	s.b.val = v
	return s
}

// releaseStrong drops one strong unit. On the 1 -> 0 edge it runs the
// Live -> Zombie transition (destroy the value) and then drops the implicit
// weak unit, which completes Zombie -> Freed immediately when no independent
// weak references remain.
func releaseStrong[T any](b *box[T]) {
	n := b.hdr.strong.Add(-1)
	if n > 0 {
		return
	}
	check.Assertf(n == 0, "mem: strong count underflow (%d)", n)
	info := infoFor[T]()
	finalize(b, info)
	releaseWeakUnit(b, info)
}

// finalize destroys the value: user teardown, dangling-Ptr assertion, then
// zeroing so the Zombie block pins no other objects.
func finalize[T any](b *box[T], info *typeInfo) {
	if info.finalizes {
		any(&b.val).(Finalizer).Finalize()
	}
	if check.Enabled {
		if n := b.hdr.ptrs.Load(); n != 0 {
			check.Failf("mem: %d dangling raw pointer(s) at destruction of %T", n, b.val)
		}
	}
	var zero T
	b.val = zero
	statFinalizes.Add(1)
}

// releaseWeakUnit drops one weak unit, recycling the block on the 1 -> 0
// edge. A Live allocation always holds its implicit unit, so this path only
// frees after the value is already destroyed.
func releaseWeakUnit[T any](b *box[T], info *typeInfo) {
	w := b.hdr.weak.Add(-1)
	if w > 0 {
		return
	}
	check.Assertf(w == 0, "mem: weak count underflow (%d)", w)
	if info == nil {
		info = infoFor[T]()
	}
	info.pool.Put(b)
	statFrees.Add(1)
}
