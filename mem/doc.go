// Package mem is the reference-counting ownership kernel: deterministic
// object lifetime without a tracing collector, for code that cannot afford
// collection pauses mid-frame.
//
// # References
//
// Three handle kinds share one control header per allocation:
//
//   - Strong[T] keeps the referent alive. Clone increments the strong
//     count, Release decrements it; the referent is destroyed exactly when
//     the count falls to zero.
//   - Weak[T] does not keep the referent alive. Acquire attempts to promote
//     to a Strong via a compare-and-swap loop and fails cleanly once the
//     last Strong is gone.
//   - Ptr[T] is an uncounted raw handle for zero-overhead access when
//     lifetime is guaranteed by other means. Debug builds (raiderdebug tag)
//     count outstanding Ptrs and assert the count is zero when the referent
//     is destroyed; release builds carry no cost.
//
// # Lifecycle
//
// Each allocation moves one way through three states: Live (strong > 0),
// Zombie (strong == 0, weak > 0: destroyed but not yet freed), and Freed.
// While the strong count is positive it holds one implicit weak unit on its
// own behalf, so the two counters never need to be read together. The
// destructor (Finalizer, when implemented) runs exactly once, on the
// Live to Zombie edge; the backing block is recycled exactly once, on the
// Zombie to Freed edge, strictly after destruction.
//
// Counts are lock-free atomics; cloning and releasing references to one
// allocation from many goroutines is safe. The referent value itself is not
// synchronized.
//
// # Cycles
//
// A Strong reference must not participate in a reference cycle. The first
// allocation of each referent type walks its field graph and panics when
// the type can reach itself through Strong edges only; breaking the cycle
// with a Weak or Ptr field at least once satisfies the check.
package mem
