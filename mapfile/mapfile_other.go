//go:build !linux && !darwin

package mapfile

import (
	"io"
	"os"
)

// Map reads f's entire contents into memory. On platforms without
// unix.Mmap this is a plain read; Unmap is then a no-op.
func Map(f *os.File) ([]byte, error) {
	return io.ReadAll(f)
}

// Unmap is a no-op on this platform: Map never mapped anything.
func Unmap(data []byte) error {
	return nil
}
