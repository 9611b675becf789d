//go:build !unix

package arena

// reserve allocates the backing region on the Go heap when no mmap facility
// is available. The full reservation is committed up front on these targets.
func reserve(size int) ([]byte, func() error, error) {
	data := make([]byte, size)
	return data, func() error { return nil }, nil
}
