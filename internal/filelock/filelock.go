// Package filelock guards a cleanup run with an advisory file lock so
// two interactive runs cannot mutate the same tree at once.
package filelock

import (
	"fmt"

	"github.com/gofrs/flock"
)

// LockFileName is the lock file created inside the canonical root.
const LockFileName = ".cleanfiles.lock"

// FileLock wraps a flock file lock for coordinating access to a
// scanned tree across processes.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock at the given path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns true if the lock was acquired, false if another process
// holds it.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// Path returns the lock file location.
func (fl *FileLock) Path() string {
	return fl.path
}
