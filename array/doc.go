// Package array provides the contiguous growable container the RaiderTools
// ownership kernel and map are built on: quantized capacity steps, a ratchet
// flag for hot per-frame buffers, relocation-aware element moves between
// arrays, and an arena-backed byte variant.
package array
