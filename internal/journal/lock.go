package journal

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked indicates another run currently holds the journal lock.
var ErrLocked = errors.New("another boxcar run is already in progress")

// RunLock serializes runs so two processes never interleave journal writes.
type RunLock struct {
	lock *flock.Flock
	path string
}

// NewRunLock prepares a lock at the given path without acquiring it.
func NewRunLock(path string) *RunLock {
	return &RunLock{lock: flock.New(path), path: path}
}

// Acquire takes the lock, failing immediately when another run holds it.
func (l *RunLock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock file %s)", ErrLocked, l.path)
	}
	return nil
}

// Release lets go of the lock.
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file location.
func (l *RunLock) Path() string {
	return l.path
}
