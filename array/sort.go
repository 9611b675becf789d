package array

import (
	"cmp"
	"math/bits"
)

// Sort sorts an array of ordered elements in place.
func Sort[T cmp.Ordered](a *Array[T]) {
	a.SortFunc(func(x, y *T) bool { return *x < *y })
}

// SortFunc sorts the array in place with an introspective quicksort:
// median-of-three quicksort that falls back to heapsort past a depth limit
// and to insertion sort on short runs. O(n log n) worst case, no
// allocation, not stable.
//
// Sorting moves elements between slots, so move-aware element types receive
// the relocation hook once per element afterward.
func (a *Array[T]) SortFunc(less func(x, y *T) bool) {
	if a.size < 2 {
		return
	}
	introsort(a.data[:a.size], less, 2*bits.Len(uint(a.size)))
	a.notifyMoved(0, a.size)
}

const insertionCutoff = 12

func introsort[T any](s []T, less func(x, y *T) bool, depth int) {
	for len(s) > insertionCutoff {
		if depth == 0 {
			heapSort(s, less)
			return
		}
		depth--
		p := partition(s, less)
		// Recurse into the smaller side, loop on the larger; stack depth
		// stays O(log n).
		if p < len(s)-p {
			introsort(s[:p], less, depth)
			s = s[p+1:]
		} else {
			introsort(s[p+1:], less, depth)
			s = s[:p]
		}
	}
	insertionSort(s, less)
}

// partition picks a median-of-three pivot and splits s around it, returning
// the pivot's final index.
func partition[T any](s []T, less func(x, y *T) bool) int {
	m := len(s) / 2
	hi := len(s) - 1
	if less(&s[m], &s[0]) {
		s[m], s[0] = s[0], s[m]
	}
	if less(&s[hi], &s[0]) {
		s[hi], s[0] = s[0], s[hi]
	}
	if less(&s[hi], &s[m]) {
		s[hi], s[m] = s[m], s[hi]
	}
	s[0], s[m] = s[m], s[0] // median to front as pivot

	i, j := 1, hi
	for {
		for i <= j && less(&s[i], &s[0]) {
			i++
		}
		for i <= j && less(&s[0], &s[j]) {
			j--
		}
		if i > j {
			break
		}
		s[i], s[j] = s[j], s[i]
		i++
		j--
	}
	s[0], s[j] = s[j], s[0]
	return j
}

func insertionSort[T any](s []T, less func(x, y *T) bool) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(&s[j], &s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func heapSort[T any](s []T, less func(x, y *T) bool) {
	for i := len(s)/2 - 1; i >= 0; i-- {
		siftDown(s, i, len(s), less)
	}
	for end := len(s) - 1; end > 0; end-- {
		s[0], s[end] = s[end], s[0]
		siftDown(s, 0, end, less)
	}
}

func siftDown[T any](s []T, root, end int, less func(x, y *T) bool) {
	for {
		child := 2*root + 1
		if child >= end {
			return
		}
		if child+1 < end && less(&s[child], &s[child+1]) {
			child++
		}
		if !less(&s[root], &s[child]) {
			return
		}
		s[root], s[child] = s[child], s[root]
		root = child
	}
}
