package mem

import "github.com/Raiderium/RaiderTools/internal/check"

// Weak is a non-owning handle: it does not keep the referent alive, but can
// attempt to produce a Strong reference while one still exists elsewhere.
// The zero value is the null reference.
type Weak[T any] struct {
	b *box[T]
}

// IsNil reports whether the reference is null.
func (w Weak[T]) IsNil() bool { return w.b == nil }

// Acquire attempts to promote to a Strong reference. It succeeds only while
// the strong count is nonzero at the moment of the compare-and-swap
// increment; once the referent is a Zombie it fails forever, returning a
// null Strong. This is the one place a plain increment is insufficient: the
// read-check-increment must be atomic against a concurrent decrement to
// zero.
func (w Weak[T]) Acquire() (Strong[T], bool) {
	if w.b == nil {
		return Strong[T]{}, false
	}
	h := &w.b.hdr
	for {
		n := h.strong.Load()
		if n == 0 {
			statFailedAcquires.Add(1)
			return Strong[T]{}, false
		}
		if h.strong.CompareAndSwap(n, n+1) {
			return Strong[T]{b: w.b}, true
		}
	}
}

// Clone returns an additional weak reference. Always succeeds.
func (w Weak[T]) Clone() Weak[T] {
	if w.b == nil {
		return Weak[T]{}
	}
	n := w.b.hdr.weak.Add(1)
	check.Assertf(n > 1, "mem: Clone of dead Weak (count %d)", n)
	return Weak[T]{b: w.b}
}

// Release drops this reference and nulls it. Dropping the last weak unit of
// a Zombie recycles the block. Releasing a null reference is a no-op.
func (w *Weak[T]) Release() {
	if w.b == nil {
		return
	}
	b := w.b
	w.b = nil
	releaseWeakUnit(b, nil)
}

// Dispose releases the reference, for arrays of Weak references.
func (w *Weak[T]) Dispose() { w.Release() }
