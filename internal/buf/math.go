// Package buf contains byte-buffer arithmetic shared by the arena and the
// dynamic array: overflow-safe size math, alignment, and raw cell-header
// access.
package buf

import (
	"encoding/binary"
	"math"
)

const (
	// CellAlign is the alignment of every arena cell, in bytes.
	CellAlign = 8

	cellAlignMask = CellAlign - 1

	// PageSize is the arena growth granule. Large capacity requests are
	// rounded up to whole pages so repeated growth near a boundary does not
	// thrash the backing region.
	PageSize = 4096

	pageMask = PageSize - 1
)

// AddOK adds a and b, returning ok = false when the result would overflow int.
func AddOK(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOK multiplies a and b, returning ok = false when the result would
// overflow int. Capacity computations are count * elementSize; both operands
// are non-negative in every caller.
func MulOK(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, false
	}
	if (a < 0) != (b < 0) || (a < 0 && b < 0) {
		// Negative sizes never reach capacity math; treat as overflow.
		return 0, false
	}
	return a * b, true
}

// Align8 returns n aligned up to the next 8-byte boundary.
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + cellAlignMask) &^ cellAlignMask
}

// AlignPage returns n aligned up to the next page boundary.
func AlignPage(n int) int {
	return (n + pageMask) &^ pageMask
}

// I32 reads a little-endian int32 from b at off. Arena cell headers are
// stored this way: positive size means free, negative means allocated.
func I32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off:]))
}

// PutI32 writes a little-endian int32 into b at off.
func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:], uint32(v))
}
