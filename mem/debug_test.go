//go:build raiderdebug

package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Debug-build assertion coverage: these run under `go test -tags raiderdebug`
// (see scripts/test.sh) and verify the checks that release builds compile out.

type debugRes struct {
	n int
}

func TestDanglingPtrAtDestructionPanics(t *testing.T) {
	s := NewValue(debugRes{n: 1})
	p := s.Raw()

	assert.Panics(t, func() { s.Release() },
		"a raw handle outliving the last owner is a lifetime bug")
	_ = p
}

func TestReleasedPtrsAllowDestruction(t *testing.T) {
	s := NewValue(debugRes{n: 2})
	p := s.Raw()
	p2 := p.Clone()

	p2.Release()
	p.Release()
	assert.NotPanics(t, func() { s.Release() },
		"balanced raw handles must not trip the destruction check")
}

func TestGetOnNullHandlesPanics(t *testing.T) {
	var s Strong[debugRes]
	var p Ptr[debugRes]

	assert.Panics(t, func() { s.Get() })
	assert.Panics(t, func() { p.Get() })
}

func TestPtrGetAfterReleasePanics(t *testing.T) {
	s := NewValue(debugRes{n: 3})
	p := s.Raw()
	p.Release()

	assert.Panics(t, func() { p.Get() }, "a released handle is null")
	s.Release()
}
