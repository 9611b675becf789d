package mem

import "sync/atomic"

// Process-wide instrumentation counters. Kept always on: four uncontended
// atomic adds per object lifetime are noise next to the allocation itself,
// and the exactly-once destroy/free invariants are only testable with them.
var (
	statAllocs         atomic.Uint64
	statFinalizes      atomic.Uint64
	statFrees          atomic.Uint64
	statFailedAcquires atomic.Uint64
)

// Stats is a snapshot of the kernel's lifetime counters.
type Stats struct {
	Allocs         uint64 // blocks handed out by New/NewValue
	Finalizes      uint64 // Live -> Zombie transitions (value destroyed)
	Frees          uint64 // Zombie -> Freed transitions (block recycled)
	FailedAcquires uint64 // Weak/Ptr promotions that found a Zombie
}

// ReadStats returns a snapshot of the counters. Deltas between snapshots
// are meaningful; absolute values accumulate for the process lifetime.
func ReadStats() Stats {
	return Stats{
		Allocs:         statAllocs.Load(),
		Finalizes:      statFinalizes.Load(),
		Frees:          statFrees.Load(),
		FailedAcquires: statFailedAcquires.Load(),
	}
}
