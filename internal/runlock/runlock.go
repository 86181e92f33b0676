// Package runlock enforces single-writer access to an output directory.
// Two generators writing the same tree would race on the skip-if-exists
// reuse check, so a run holds a flock for its whole duration.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrHeld indicates another process is generating into the same directory.
var ErrHeld = errors.New("output directory is locked by another run")

// Lock guards one output directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// New prepares a lock for the given output directory. The lock file lives
// inside the directory as .iiifgen.lock.
func New(outputDir string) (*Lock, error) {
	outputDir = strings.TrimSpace(outputDir)
	if outputDir == "" {
		return nil, errors.New("output directory required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output directory: %w", err)
	}
	path := filepath.Join(outputDir, ".iiifgen.lock")
	return &Lock{path: path, lock: flock.New(path)}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. It returns ErrHeld when some
// other process already holds it.
func (l *Lock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (%s)", ErrHeld, l.path)
	}
	return nil
}

// Release drops the lock. Safe to call when not held.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}
