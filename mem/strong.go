package mem

import "github.com/Raiderium/RaiderTools/internal/check"

// Strong is a counted ownership handle: the referent is alive as long as at
// least one Strong to it exists. The zero value is the null reference.
//
// A Strong held by value must be released exactly once. Copying the struct
// does not count; use Clone for a counted copy.
type Strong[T any] struct {
	b *box[T]
}

// IsNil reports whether the reference is null (explicitly empty or a failed
// acquisition).
func (s Strong[T]) IsNil() bool { return s.b == nil }

// Get returns the referent. Calling Get on a null reference is a programmer
// error.
func (s Strong[T]) Get() *T {
	check.Assertf(s.b != nil, "mem: Get on null Strong[%T]", *new(T))
	return &s.b.val
}

// Clone returns an additional owning reference. Always succeeds: the source
// itself keeps the referent live across the increment.
func (s Strong[T]) Clone() Strong[T] {
	if s.b == nil {
		return Strong[T]{}
	}
	n := s.b.hdr.strong.Add(1)
	check.Assertf(n > 1, "mem: Clone of dead Strong (count %d)", n)
	return Strong[T]{b: s.b}
}

// Downgrade returns a weak reference to the referent.
func (s Strong[T]) Downgrade() Weak[T] {
	if s.b == nil {
		return Weak[T]{}
	}
	s.b.hdr.weak.Add(1)
	return Weak[T]{b: s.b}
}

// Raw returns an uncounted handle. The caller must guarantee a Strong or
// Weak reference outlives it; debug builds verify that at destruction.
func (s Strong[T]) Raw() Ptr[T] {
	if s.b == nil {
		return Ptr[T]{}
	}
	if check.Enabled {
		s.b.hdr.ptrs.Add(1)
	}
	return Ptr[T]{b: s.b}
}

// Release drops this reference and nulls it. Releasing the last Strong
// destroys the referent. Releasing a null reference is a no-op.
func (s *Strong[T]) Release() {
	if s.b == nil {
		return
	}
	b := s.b
	s.b = nil
	releaseStrong(b)
}

// Dispose releases the reference; it exists so arrays of Strong references
// destroy their elements.
func (s *Strong[T]) Dispose() { s.Release() }
