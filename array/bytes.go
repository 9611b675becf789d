package array

import (
	"github.com/Raiderium/RaiderTools/arena"
	"github.com/Raiderium/RaiderTools/internal/check"
)

// Bytes is a growable byte buffer whose backing block lives in an Arena
// rather than on the Go heap. It follows the same quantized-capacity and
// ratchet policy as Array and implements io.Writer, which makes it the
// natural scratch target for per-frame producers: set the ratchet, reuse
// the buffer every frame, release it when the consumer goes away.
//
// Not safe for concurrent use.
type Bytes struct {
	a       *arena.Arena
	ref     arena.Ref
	data    []byte // cell payload; len(data) == capacity
	size    int
	ratchet bool
}

// NewBytes creates an empty arena-backed byte buffer.
func NewBytes(a *arena.Arena) *Bytes {
	return &Bytes{a: a}
}

// Len returns the number of live bytes.
func (b *Bytes) Len() int { return b.size }

// Cap returns the capacity of the backing cell.
func (b *Bytes) Cap() int { return len(b.data) }

// Ratchet reports whether capacity is pinned against shrinking.
func (b *Bytes) Ratchet() bool { return b.ratchet }

// SetRatchet pins (or releases) capacity shrinking.
func (b *Bytes) SetRatchet(on bool) { b.ratchet = on }

// Bytes returns the live contents aliasing arena storage. The slice is
// invalidated by any mutation and by Release.
func (b *Bytes) Bytes() []byte { return b.data[:b.size] }

// SetLen resizes the buffer. Growing zero-fills the new tail; shrinking
// discards it and follows the shrink policy.
func (b *Bytes) SetLen(n int) {
	check.Assertf(n >= 0, "array: Bytes.SetLen(%d) negative", n)
	switch {
	case n > b.size:
		b.ensureCap(n)
		clear(b.data[b.size:n])
		b.size = n
	case n < b.size:
		b.size = n
		b.maybeShrink()
	}
}

// Append appends p and returns the buffer for chaining.
func (b *Bytes) Append(p ...byte) *Bytes {
	b.ensureCap(b.size + len(p))
	copy(b.data[b.size:], p)
	b.size += len(p)
	return b
}

// Write implements io.Writer. It never fails; arena exhaustion is fatal.
func (b *Bytes) Write(p []byte) (int, error) {
	b.Append(p...)
	return len(p), nil
}

// Reset discards the contents, keeping the cell when the ratchet is set.
func (b *Bytes) Reset() {
	b.size = 0
	b.maybeShrink()
}

// Release frees the backing cell. The buffer is reusable afterward.
func (b *Bytes) Release() {
	if b.ref != arena.NilRef {
		if err := b.a.Free(b.ref); err != nil {
			check.Failf("array: Bytes.Release: %v", err)
		}
		b.ref = arena.NilRef
		b.data = nil
	}
	b.size = 0
}

// ensureCap moves the contents into a larger cell when needed. The arena's
// own size classes quantize the request further.
func (b *Bytes) ensureCap(n int) {
	if n <= len(b.data) {
		return
	}
	ref, payload := b.a.Alloc(quantizeBytes(n))
	copy(payload, b.data[:b.size])
	if b.ref != arena.NilRef {
		if err := b.a.Free(b.ref); err != nil {
			check.Failf("array: Bytes.ensureCap: %v", err)
		}
	}
	b.ref = ref
	b.data = payload
}

// maybeShrink reallocates into a smaller cell once occupancy drops to half
// or less of the current one, unless the ratchet is set.
func (b *Bytes) maybeShrink() {
	if b.ratchet || b.ref == arena.NilRef {
		return
	}
	if b.size == 0 {
		b.Release()
		return
	}
	target := quantizeBytes(b.size)
	if target >= len(b.data) || target > len(b.data)/2 {
		return
	}
	ref, payload := b.a.Alloc(target)
	copy(payload, b.data[:b.size])
	if err := b.a.Free(b.ref); err != nil {
		check.Failf("array: Bytes.maybeShrink: %v", err)
	}
	b.ref = ref
	b.data = payload
}
