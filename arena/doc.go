// Package arena provides the byte-allocator substrate for the RaiderTools
// containers: a contiguous reserved region carved into header-prefixed cells
// with segregated free-list recycling.
//
// # Overview
//
// The arena reserves address space once (anonymous mmap where available) and
// commits it in 4KB pages as demand grows. Every cell carries a 4-byte
// header holding its total size; positive means free, negative means
// allocated. Because the region never relocates, payload slices handed out
// by Alloc stay valid until the cell is freed.
//
// # Free lists
//
// Free cells are indexed by size class. Classes follow a configurable step
// function (see Config): linear buckets for small cells, logarithmic growth
// up to 16KB, and a single large list above that. Each class keeps its cells
// in a min-heap keyed on size, so best-fit is a short bounded scan of a
// small heap. Freed cells coalesce with free neighbors on both sides via
// O(1) offset indexes.
//
// # Failure model
//
// Exhausting the reservation is fatal: Alloc and GrowByPages panic rather
// than return an error, because a latency-sensitive loop has no useful
// recovery from out-of-memory mid-frame. Misuse of refs (bad offset,
// double free) is reported with sentinel errors.
//
// # Concurrency
//
// An Arena is not safe for concurrent use. The intended pattern for
// parallel population is one arena (or staging buffer) per worker, merged
// afterward.
package arena
