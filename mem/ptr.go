package mem

import "github.com/Raiderium/RaiderTools/internal/check"

// Ptr is an uncounted raw handle, valid only as long as the caller can
// independently guarantee a Strong or Weak reference exists. It contributes
// nothing to lifetime in release builds; debug builds (raiderdebug) track
// the outstanding Ptr count and assert it is zero when the referent is
// destroyed, catching dangling-pointer bugs without preventing them.
type Ptr[T any] struct {
	b *box[T]
}

// IsNil reports whether the handle is null.
func (p Ptr[T]) IsNil() bool { return p.b == nil }

// Get returns the referent. Debug builds assert the referent is still Live.
func (p Ptr[T]) Get() *T {
	check.Assertf(p.b != nil, "mem: Get on null Ptr[%T]", *new(T))
	if check.Enabled {
		check.Assertf(p.b.hdr.strong.Load() > 0,
			"mem: Ptr.Get on destroyed %T", *new(T))
	}
	return &p.b.val
}

// Acquire attempts to produce a Strong reference, like Weak.Acquire.
func (p Ptr[T]) Acquire() (Strong[T], bool) {
	return Weak[T]{b: p.b}.Acquire()
}

// Clone returns another uncounted handle. Debug builds bump the Ptr count.
func (p Ptr[T]) Clone() Ptr[T] {
	if p.b != nil && check.Enabled {
		p.b.hdr.ptrs.Add(1)
	}
	return Ptr[T]{b: p.b}
}

// Release nulls the handle. Debug builds drop the Ptr count; release builds
// only clear the pointer.
func (p *Ptr[T]) Release() {
	if p.b == nil {
		return
	}
	if check.Enabled {
		n := p.b.hdr.ptrs.Add(-1)
		check.Assertf(n >= 0, "mem: Ptr count underflow (%d)", n)
	}
	p.b = nil
}

// Dispose releases the handle, for arrays of Ptr handles.
func (p *Ptr[T]) Dispose() { p.Release() }
