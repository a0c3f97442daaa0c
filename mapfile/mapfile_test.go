package mapfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMapUnmapRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Compose")
	want := []byte("<a> : \"A\"\n")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	data, err := Map(f)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if string(data) != string(want) {
		t.Fatalf("got %q, want %q", data, want)
	}
	if err := Unmap(data); err != nil {
		t.Fatalf("unmap: %v", err)
	}
}

func TestMapEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	data, err := Map(f)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty mapping, got %d bytes", len(data))
	}
	if err := Unmap(data); err != nil {
		t.Fatalf("unmap: %v", err)
	}
}
