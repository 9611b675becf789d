package array

import (
	"math/bits"
	"unsafe"

	"github.com/Raiderium/RaiderTools/internal/buf"
	"github.com/Raiderium/RaiderTools/internal/check"
)

// Relocatable is implemented by element types that hold back-pointers into
// their own storage. Relocated is called on an element after its storage
// address has changed (buffer reallocation or in-place shift) so the element
// can repair external pointers to itself.
type Relocatable interface {
	Relocated()
}

// Disposer is implemented by element types that own resources. Dispose is
// called on elements that are destroyed in place (RemoveRange, a shrinking
// SetLen, Clear, Dispose); elements moved out of the array (Pop, RemoveAt,
// MoveTo) are not disposed.
type Disposer interface {
	Dispose()
}

// Array is a growable contiguous container. It owns a single heap block;
// elements [0, size) are live, [size, cap) is zeroed reserve. Capacity moves
// in quantized steps (see quantizeBytes) so repeated growth and shrink near
// a boundary does not thrash allocation, and the ratchet flag pins capacity
// entirely for hot per-frame buffers.
//
// The zero value is an empty array ready for use. An Array is not safe for
// concurrent mutation; parallel producers should stage into per-worker
// arrays and merge with MoveTo.
type Array[T any] struct {
	data    []T // len(data) == capacity
	size    int
	ratchet bool
}

// Of creates an array holding the given items.
func Of[T any](items ...T) *Array[T] {
	a := &Array[T]{}
	a.ensureCap(len(items))
	copy(a.data, items)
	a.size = len(items)
	return a
}

// NewWithCap creates an empty array with capacity for at least n elements.
func NewWithCap[T any](n int) *Array[T] {
	a := &Array[T]{}
	a.ensureCap(n)
	return a
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int { return a.size }

// Cap returns the current capacity in elements.
func (a *Array[T]) Cap() int { return len(a.data) }

// Ratchet reports whether capacity is pinned against shrinking.
func (a *Array[T]) Ratchet() bool { return a.ratchet }

// SetRatchet pins (or releases) capacity shrinking. While set, capacity
// never decreases regardless of size reductions; clearing it allows the
// next mutating operation to shrink.
func (a *Array[T]) SetRatchet(on bool) { a.ratchet = on }

// Items returns the live elements as a slice aliasing the array's storage.
// The slice is invalidated by any mutation; it exists for scatter/gather
// consumers that need raw pointer+size access.
func (a *Array[T]) Items() []T { return a.data[:a.size] }

// At returns a pointer to element i. The pointer is invalidated by any
// mutation that relocates storage.
func (a *Array[T]) At(i int) *T {
	check.Assertf(i >= 0 && i < a.size, "array: At(%d) out of bounds, size %d", i, a.size)
	return &a.data[:a.size][i]
}

// SetLen resizes the array. Growing default-constructs (zeroes) the new
// trailing elements; shrinking disposes and discards the trailing elements.
func (a *Array[T]) SetLen(n int) {
	check.Assertf(n >= 0, "array: SetLen(%d) negative", n)
	switch {
	case n > a.size:
		a.ensureCap(n)
		a.size = n // reserve slots are kept zeroed
	case n < a.size:
		a.disposeRange(n, a.size)
		clear(a.data[n:a.size])
		a.size = n
		a.maybeShrink()
	}
}

// Add moves item into the array at the end and returns its index. The
// source value should be treated as moved-from by the caller.
func (a *Array[T]) Add(item T) int {
	a.ensureCap(a.size + 1)
	a.data[a.size] = item
	a.size++
	return a.size - 1
}

// AddAt moves item into the array at index, preserving the order of
// existing elements. Precondition: index <= size.
func (a *Array[T]) AddAt(item T, index int) {
	a.insertGap(index, 1)
	a.data[index] = item
	a.notifyMoved(index, index+1)
}

// Insert opens count default-constructed (zero) elements at index, shifting
// [index, size) right. Precondition: index <= size.
func (a *Array[T]) Insert(index, count int) {
	a.insertGap(index, count)
	clear(a.data[index : index+count])
}

// RemoveRange disposes elements [index, index+count) and shifts the
// remainder left. Precondition: index+count <= size.
func (a *Array[T]) RemoveRange(index, count int) {
	check.Assertf(count >= 0 && index >= 0 && index+count <= a.size,
		"array: RemoveRange(%d, %d) out of bounds, size %d", index, count, a.size)
	if count == 0 {
		return
	}
	a.disposeRange(index, index+count)
	copy(a.data[index:], a.data[index+count:a.size])
	newSize := a.size - count
	clear(a.data[newSize:a.size])
	a.size = newSize
	a.notifyMoved(index, newSize)
	a.maybeShrink()
}

// Pop moves the last element out and returns it.
func (a *Array[T]) Pop() T {
	check.Assertf(a.size > 0, "array: Pop on empty array")
	a.size--
	item := a.data[a.size]
	clear(a.data[a.size : a.size+1])
	a.maybeShrink()
	return item
}

// RemoveAt moves element index out and returns it, shifting the remainder
// left to preserve order.
func (a *Array[T]) RemoveAt(index int) T {
	check.Assertf(index >= 0 && index < a.size,
		"array: RemoveAt(%d) out of bounds, size %d", index, a.size)
	item := a.data[index]
	copy(a.data[index:], a.data[index+1:a.size])
	a.size--
	clear(a.data[a.size : a.size+1])
	a.notifyMoved(index, a.size)
	a.maybeShrink()
	return item
}

// SwapRemoveAt moves element index out and returns it, filling the hole
// with the last element in O(1). Element order is disturbed.
func (a *Array[T]) SwapRemoveAt(index int) T {
	check.Assertf(index >= 0 && index < a.size,
		"array: SwapRemoveAt(%d) out of bounds, size %d", index, a.size)
	item := a.data[index]
	a.size--
	if index != a.size {
		a.data[index] = a.data[a.size]
	}
	clear(a.data[a.size : a.size+1])
	if index != a.size {
		a.notifyMoved(index, index+1)
	}
	a.maybeShrink()
	return item
}

// MoveTo relocates elements [index, index+count) into dst at dstIndex as
// one raw block move, then closes the gap in the receiver. The moved
// elements are not disposed; they change owner. dst must be a different
// array instance.
func (a *Array[T]) MoveTo(index, count int, dst *Array[T], dstIndex int) {
	check.Assertf(a != dst, "array: MoveTo within the same array")
	check.Assertf(count >= 0 && index >= 0 && index+count <= a.size,
		"array: MoveTo(%d, %d) out of bounds, size %d", index, count, a.size)
	if count == 0 {
		return
	}
	dst.insertGap(dstIndex, count)
	copy(dst.data[dstIndex:dstIndex+count], a.data[index:index+count])
	dst.notifyMoved(dstIndex, dstIndex+count)

	copy(a.data[index:], a.data[index+count:a.size])
	newSize := a.size - count
	clear(a.data[newSize:a.size])
	a.size = newSize
	a.notifyMoved(index, newSize)
	a.maybeShrink()
}

// Clear disposes all elements and resets size to zero. Capacity follows the
// usual shrink policy.
func (a *Array[T]) Clear() {
	a.disposeRange(0, a.size)
	clear(a.data[:a.size])
	a.size = 0
	a.maybeShrink()
}

// Dispose destroys all elements and releases the buffer. The array is
// reusable afterward as an empty array.
func (a *Array[T]) Dispose() {
	a.disposeRange(0, a.size)
	a.data = nil
	a.size = 0
}

// Reserve grows capacity to hold at least n elements without changing size.
func (a *Array[T]) Reserve(n int) {
	a.ensureCap(n)
}

// insertGap shifts [index, size) right by count and grows size. The gap
// contents are unspecified; callers fill or zero it. Each moved element is
// notified exactly once, at its final address: when the gap forces a
// relocation, the shift happens as part of the move into the new buffer
// rather than as a second pass.
func (a *Array[T]) insertGap(index, count int) {
	check.Assertf(count >= 0 && index >= 0 && index <= a.size,
		"array: insert at %d (count %d) out of bounds, size %d", index, count, a.size)
	need := a.size + count
	if need > len(a.data) {
		next := make([]T, quantCap[T](need))
		copy(next, a.data[:index])
		copy(next[index+count:], a.data[index:a.size])
		a.data = next
		a.size = need
		a.notifyMoved(0, index)
		a.notifyMoved(index+count, need)
		return
	}
	copy(a.data[index+count:need], a.data[index:a.size])
	a.size = need
	a.notifyMoved(index+count, need)
}

// ensureCap reallocates to a quantized capacity >= n. Relocation fires the
// move hook on every live element.
func (a *Array[T]) ensureCap(n int) {
	if n <= len(a.data) {
		return
	}
	next := make([]T, quantCap[T](n))
	copy(next, a.data[:a.size])
	a.data = next
	a.notifyMoved(0, a.size)
}

// maybeShrink reallocates to a smaller quantized capacity once occupancy
// drops to half or less of the current block, unless the ratchet is set.
// The half-step hysteresis keeps a remove/add pair at a quantization
// boundary from thrashing.
func (a *Array[T]) maybeShrink() {
	if a.ratchet || len(a.data) == 0 {
		return
	}
	target := quantCap[T](a.size)
	if target >= len(a.data) || target > len(a.data)/2 {
		return
	}
	if target == 0 {
		a.data = nil
		return
	}
	next := make([]T, target)
	copy(next, a.data[:a.size])
	a.data = next
	a.notifyMoved(0, a.size)
}

// disposeRange calls Dispose on elements [lo, hi) when the element type
// owns resources.
func (a *Array[T]) disposeRange(lo, hi int) {
	if _, ok := any((*T)(nil)).(Disposer); !ok {
		return
	}
	for i := lo; i < hi; i++ {
		any(&a.data[i]).(Disposer).Dispose()
	}
}

// notifyMoved fires the move hook on elements [lo, hi) when the element
// type opts in.
func (a *Array[T]) notifyMoved(lo, hi int) {
	if _, ok := any((*T)(nil)).(Relocatable); !ok {
		return
	}
	for i := lo; i < hi; i++ {
		any(&a.data[i]).(Relocatable).Relocated()
	}
}

// quantCap converts a requested element count into a quantized capacity.
func quantCap[T any](n int) int {
	if n <= 0 {
		return 0
	}
	elem := int(unsafe.Sizeof(*new(T)))
	if elem == 0 {
		return n
	}
	bytes, ok := buf.MulOK(n, elem)
	if !ok {
		panic("array: capacity overflow")
	}
	return quantizeBytes(bytes) / elem
}

// quantizeBytes rounds a byte size up to the capacity step function: a
// 64-byte floor, power-of-two buckets below one page, whole pages above.
// The exact thresholds are performance tuning, not a correctness contract.
func quantizeBytes(n int) int {
	const minBytes = 64
	if n <= minBytes {
		return minBytes
	}
	if n < buf.PageSize {
		return 1 << bits.Len(uint(n-1))
	}
	return buf.AlignPage(n)
}
