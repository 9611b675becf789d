package array

// Find scans linearly for the first element satisfying pred and returns its
// index. Returns (size, false) when no element matches.
func (a *Array[T]) Find(pred func(*T) bool) (int, bool) {
	for i := 0; i < a.size; i++ {
		if pred(&a.data[i]) {
			return i, true
		}
	}
	return a.size, false
}

// Search binary-searches an array kept sorted under the ordering that cmp
// encodes. cmp receives an element and returns negative when the element
// sorts before the target, zero on a match, positive after.
//
// On a hit the match index is returned with found = true. On a miss the
// returned index is where the target would be inserted to keep the array
// sorted, with found = false.
func (a *Array[T]) Search(cmp func(*T) int) (index int, found bool) {
	lo, hi := 0, a.size
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c := cmp(&a.data[mid])
		if c == 0 {
			return mid, true
		}
		if c < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, false
}
