package arena

import "errors"

var (
	// ErrBadRef indicates an invalid or out-of-bounds cell reference.
	ErrBadRef = errors.New("arena: bad cell reference")

	// ErrDoubleFree indicates an attempt to free a cell that is already free.
	ErrDoubleFree = errors.New("arena: cell already free")

	// ErrNotTrailingFree indicates a truncation request over pages that are
	// not entirely covered by the trailing free cell.
	ErrNotTrailingFree = errors.New("arena: truncation range is not free")

	// ErrReserve indicates that reserving the backing region failed.
	ErrReserve = errors.New("arena: region reservation failed")
)
