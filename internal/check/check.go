// Package check provides debug-build assertions for precondition violations.
//
// Violations of container and reference-count preconditions are programmer
// errors, not recoverable runtime conditions. Debug builds (the "raiderdebug"
// build tag) turn every violated precondition into a descriptive panic at the
// call site; release builds compile the checks to dead branches and rely on
// the callers never triggering them.
package check

import "fmt"

// Assertf panics with a formatted message when cond is false.
// Compiled out entirely unless the raiderdebug build tag is set.
func Assertf(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(fmt.Sprintf("check: "+format, args...))
	}
}

// Failf unconditionally reports a violated invariant in debug builds.
func Failf(format string, args ...any) {
	if Enabled {
		panic(fmt.Sprintf("check: "+format, args...))
	}
}
