package arena

// Stats holds internal allocator statistics, exposed for tests and
// instrumentation.
type Stats struct {
	AllocCalls    int   // Total Alloc() calls
	AllocFastPath int   // Allocations satisfied without growing
	AllocSlowPath int   // Allocations that required growth
	FreeCalls     int   // Total Free() calls
	GrowCalls     int   // Number of growth operations
	TruncateCalls int   // Number of TruncatePages() calls
	GrowBytes     int64 // Total bytes committed via growth

	BytesAllocated int64 // Total bytes allocated (including headers)
	BytesFreed     int64 // Total bytes freed

	SplitCount       int // Number of cell splits
	CoalesceForward  int // Forward coalesce operations
	CoalesceBackward int // Backward coalesce operations

	// Computed at snapshot time.
	Committed int   // Committed region bytes
	FreeCells int   // Live free cells across all lists
	FreeBytes int64 // Total free bytes
}

// Stats returns a snapshot of allocator statistics.
func (a *Arena) Stats() Stats {
	s := a.stats
	s.Committed = a.length
	for i := range a.freeLists {
		for _, c := range a.freeLists[i].heap {
			s.FreeCells++
			s.FreeBytes += int64(c.size)
		}
	}
	return s
}
