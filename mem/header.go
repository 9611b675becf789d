package mem

import "sync/atomic"

// header is the control block adjacent to every managed value. The strong
// and weak counts are the only state designed for concurrent mutation; all
// updates are lock-free read-modify-write or compare-and-swap.
//
// Invariants: while strong > 0 the weak count holds one implicit unit on the
// strong count's behalf, so weak >= 1 whenever strong > 0. The value is
// destroyed exactly once, when strong reaches zero; the block is recycled
// exactly once, when weak reaches zero; destruction strictly precedes
// recycling.
type header struct {
	strong atomic.Int32
	weak   atomic.Int32
	ptrs   atomic.Int32 // debug-only raw-pointer bookkeeping
}

// box is the allocation unit: header and value contiguous behind one
// indirection.
type box[T any] struct {
	hdr header
	val T
}

// Finalizer is implemented by referent types that need teardown when the
// last strong reference drops. Finalize runs exactly once, before the
// backing block is recycled, on whichever goroutine released the last
// Strong.
//
// A failing (panicking) finalizer leaves the allocation in an undefined
// state; the kernel does not recover it.
type Finalizer interface {
	Finalize()
}
