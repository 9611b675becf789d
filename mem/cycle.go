package mem

import (
	"fmt"
	"reflect"
	"strings"
)

// Static cycle prevention: a type whose field graph can reach itself through
// Strong references only would leak every instance, so it is rejected before
// the first allocation. Cycles must be broken with a Weak or Ptr reference
// at least once per loop. The check walks the value layout of the referent
// type: struct fields, embedded arrays, slice/map/pointer element types.
// Interface fields are opaque to the walk and are not analyzed.

var memPkgPath = reflect.TypeFor[Strong[int]]().PkgPath()

func isRefType(t reflect.Type, prefix string) bool {
	return t.Kind() == reflect.Struct &&
		t.PkgPath() == memPkgPath &&
		strings.HasPrefix(t.Name(), prefix)
}

// strongReferent extracts U from Strong[U] through the box layout.
func strongReferent(t reflect.Type) reflect.Type {
	boxT := t.Field(0).Type.Elem()
	val, ok := boxT.FieldByName("val")
	if !ok {
		panic(fmt.Sprintf("mem: box layout changed, no val field in %s", boxT))
	}
	return val.Type
}

// checkStrongCycles panics when root can reach itself through Strong edges
// only. Runs once per referent type, on its first allocation.
func checkStrongCycles(root reflect.Type) {
	const (
		inProgress = 1
		done       = 2
	)
	state := make(map[reflect.Type]int)
	var stack []reflect.Type

	var visit func(t reflect.Type)
	visit = func(t reflect.Type) {
		switch state[t] {
		case inProgress:
			panic("mem: strong reference cycle: " + formatCycle(stack, t) +
				" (break the cycle with a Weak or Ptr reference)")
		case done:
			return
		}
		state[t] = inProgress
		stack = append(stack, t)
		forEachStrongEdge(t, visit)
		stack = stack[:len(stack)-1]
		state[t] = done
	}
	visit(root)
}

// forEachStrongEdge calls visit with the referent type of every Strong
// reference embedded in t's value layout. Weak and Ptr fields terminate the
// walk; they are the sanctioned cycle breakers.
func forEachStrongEdge(t reflect.Type, visit func(reflect.Type)) {
	seen := make(map[reflect.Type]bool)
	var walk func(t reflect.Type)
	walk = func(t reflect.Type) {
		if seen[t] {
			return
		}
		seen[t] = true
		switch {
		case isRefType(t, "Strong["):
			visit(strongReferent(t))
			return
		case isRefType(t, "Weak["), isRefType(t, "Ptr["):
			return
		}
		switch t.Kind() {
		case reflect.Struct:
			for i := 0; i < t.NumField(); i++ {
				walk(t.Field(i).Type)
			}
		case reflect.Pointer, reflect.Slice, reflect.Array:
			walk(t.Elem())
		case reflect.Map:
			walk(t.Key())
			walk(t.Elem())
		}
	}
	walk(t)
}

func formatCycle(stack []reflect.Type, at reflect.Type) string {
	start := 0
	for i, t := range stack {
		if t == at {
			start = i
			break
		}
	}
	var b strings.Builder
	for _, t := range stack[start:] {
		b.WriteString(t.String())
		b.WriteString(" -> ")
	}
	b.WriteString(at.String())
	return b.String()
}
