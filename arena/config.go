package arena

import "math"

// Config defines the size-class strategy for the segregated free lists.
// Different profiles trade lookup granularity against internal fragmentation.
type Config struct {
	// Name for this configuration (for benchmarking)
	Name string

	// Small allocation settings (linear increments)
	SmallMin       int32 // Minimum cell size (typically 8)
	SmallMax       int32 // Max for linear increments (typically 256-512)
	SmallIncrement int32 // Increment size for small cells (8, 16, or 32)

	// Medium/Large allocation settings (logarithmic growth)
	MediumMax    int32   // Max before the large list takes over (typically 16KB)
	GrowthFactor float64 // Exponential growth factor (1.5, 2.0, etc.)
}

// Predefined profiles.
var (
	// FineGrained: many small buckets, good for varied workloads.
	// 8-256 step 8 + 256-16K log growth.
	ConfigFineGrained = Config{
		Name:           "FineGrained",
		SmallMin:       8,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Balanced: good balance between bucket count and granularity.
	ConfigBalanced = Config{
		Name:           "Balanced",
		SmallMin:       8,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Coarse: fewer buckets, faster class lookup, more internal fragmentation.
	ConfigCoarse = Config{
		Name:           "Coarse",
		SmallMin:       8,
		SmallMax:       512,
		SmallIncrement: 32,
		MediumMax:      16384,
		GrowthFactor:   2.0,
	}

	// Frame: derived from the container capacity steps. Buffer capacities
	// move through a 64-byte floor and then powers of two, so a growth
	// factor of exactly 2 from a 64-byte linear ceiling puts one class
	// boundary on each capacity step: a cell freed at one step re-enters
	// the class the next request of that step searches first, and a
	// ratcheted buffer reallocating every frame always finds an exact fit.
	ConfigFrame = Config{
		Name:           "Frame",
		SmallMin:       8,
		SmallMax:       64,
		SmallIncrement: 8,
		MediumMax:      16384,
		GrowthFactor:   2.0,
	}

	// Default configuration (used if none specified).
	DefaultConfig = ConfigBalanced
)

// ClassBoundaries returns the upper bound of every size class this profile
// produces, in ascending order. Requests above the last boundary are served
// from the large list.
func (c Config) ClassBoundaries() []int32 {
	t := newSizeClassTable(c)
	return append([]int32(nil), t.boundaries...)
}

// sizeClassTable maps cell sizes to free-list indexes. Class i covers the
// sizes (boundaries[i-1], boundaries[i]]; sizes past the last boundary map
// to index numClasses, the large list.
type sizeClassTable struct {
	config     Config
	boundaries []int32
	numClasses int
}

// newSizeClassTable precomputes the class boundaries a profile describes:
// fixed-width classes up to SmallMax, then geometrically widening classes up
// to MediumMax.
func newSizeClassTable(config Config) *sizeClassTable {
	var bounds []int32

	for upper := config.SmallMin + config.SmallIncrement; upper <= config.SmallMax; upper += config.SmallIncrement {
		bounds = append(bounds, upper-1)
	}

	for size := config.SmallMax; size < config.MediumMax; {
		next := int32(math.Ceil(float64(size) * config.GrowthFactor))
		if next <= size {
			next = size + 1 // degenerate growth factor; still make progress
		}
		bounds = append(bounds, next-1)
		size = next
	}

	return &sizeClassTable{
		config:     config,
		boundaries: bounds,
		numClasses: len(bounds),
	}
}

// getSizeClass returns the index of the first class whose boundary covers
// size: a lower-bound binary search over the boundary table, the same shape
// the containers use for sorted lookup. Sizes past every boundary return
// numClasses, selecting the large list.
func (t *sizeClassTable) getSizeClass(size int32) int {
	lo, hi := 0, t.numClasses
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if t.boundaries[mid] < size {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// NumClasses returns the number of size classes (excluding the large list).
func (t *sizeClassTable) NumClasses() int {
	return t.numClasses
}

func (t *sizeClassTable) String() string {
	return t.config.Name
}
