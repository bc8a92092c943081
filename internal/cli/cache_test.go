package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearCacheDir(t *testing.T) {
	dir := t.TempDir()
	for _, entry := range []string{"ab/cdef.json", "ab/0123.json", "ff/9876.json"} {
		path := filepath.Join(dir, entry)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	count, err := clearCacheDir(dir)
	if err != nil {
		t.Fatalf("clearCacheDir: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	// Shard directories go with their entries; the root stays.
	left, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("expected empty cache dir, found %d entries", len(left))
	}
}

func TestClearCacheDir_Empty(t *testing.T) {
	count, err := clearCacheDir(t.TempDir())
	if err != nil {
		t.Fatalf("clearCacheDir: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
