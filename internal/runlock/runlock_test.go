package runlock

import (
	"errors"
	"os"
	"testing"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	lock, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if _, err := os.Stat(lock.Path()); err != nil {
		t.Errorf("lock file missing: %v", err)
	}

	// flock is advisory per file handle; a second handle in the same
	// process must see the lock as held.
	second, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := second.Acquire(); !errors.Is(err, ErrHeld) {
		t.Errorf("second acquire = %v, want ErrHeld", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := second.Acquire(); err != nil {
		t.Errorf("acquire after release failed: %v", err)
	}
	_ = second.Release()
}

func TestNewCreatesOutputDir(t *testing.T) {
	dir := t.TempDir() + "/nested/out"
	if _, err := New(dir); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Error("expected error for empty path")
	}
}
