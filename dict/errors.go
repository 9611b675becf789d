package dict

import "errors"

// ErrKeyNotFound is returned by Index for absent keys. It is the one
// recoverable error in the container core; everything else is either fatal
// or a debug-checked programmer error.
var ErrKeyNotFound = errors.New("dict: key not found")
