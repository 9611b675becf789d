//go:build unix

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// reserve maps an anonymous region of size bytes. Pages are committed lazily
// by the kernel on first touch, so a large reservation costs address space,
// not resident memory.
func reserve(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: mmap(%d): %v", ErrReserve, size, err)
	}
	release := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		return err
	}
	return data, release, nil
}
