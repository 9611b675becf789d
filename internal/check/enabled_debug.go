//go:build raiderdebug

package check

// Enabled reports whether debug assertions are compiled in.
const Enabled = true
