//go:build linux || darwin

// Package mapfile maps Compose source files into memory, backing
// NewFromFile and the locale-discovery path: the compiled table never
// needs to write back, so a read-only mapping is enough.
package mapfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Map maps f's entire contents read-only. The returned slice must be
// passed to Unmap exactly once when the caller is done with it.
func Map(f *os.File) ([]byte, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("mapfile: stat: %w", err)
	}
	size := fi.Size()
	if size == 0 {
		return []byte{}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mapfile: mmap: %w", err)
	}
	return data, nil
}

// Unmap releases a mapping returned by Map.
func Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("mapfile: munmap: %w", err)
	}
	return nil
}
