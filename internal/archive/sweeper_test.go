package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweep(t *testing.T) {
	dir := t.TempDir()

	oldScope := filepath.Join(dir, "old-scope")
	if err := os.MkdirAll(oldScope, 0755); err != nil {
		t.Fatalf("failed to create scope: %v", err)
	}
	if err := os.WriteFile(filepath.Join(oldScope, "stale.zip"), []byte("zip"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	staleTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldScope, staleTime, staleTime); err != nil {
		t.Fatalf("failed to set mtime: %v", err)
	}

	youngScope := filepath.Join(dir, "young-scope")
	if err := os.MkdirAll(youngScope, 0755); err != nil {
		t.Fatalf("failed to create scope: %v", err)
	}

	sweeper := NewSweeper(dir, time.Hour, time.Hour, nil)
	sweeper.Sweep(time.Now())

	if _, err := os.Stat(oldScope); !os.IsNotExist(err) {
		t.Error("expected stale scope to be removed")
	}
	if _, err := os.Stat(youngScope); err != nil {
		t.Errorf("expected young scope to survive: %v", err)
	}
}

func TestSweepIdempotent(t *testing.T) {
	dir := t.TempDir()

	scope := filepath.Join(dir, "scope")
	if err := os.MkdirAll(scope, 0755); err != nil {
		t.Fatalf("failed to create scope: %v", err)
	}
	staleTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(scope, staleTime, staleTime); err != nil {
		t.Fatalf("failed to set mtime: %v", err)
	}

	sweeper := NewSweeper(dir, time.Hour, time.Hour, nil)
	sweeper.Sweep(time.Now())
	sweeper.Sweep(time.Now()) // second run must be a no-op

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty staging dir, got %d entries", len(entries))
	}
}

func TestSweepMissingDirectory(t *testing.T) {
	sweeper := NewSweeper(filepath.Join(t.TempDir(), "does-not-exist"), time.Hour, time.Hour, nil)
	sweeper.Sweep(time.Now()) // must not panic
}
