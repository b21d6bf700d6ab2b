// Package filelock provides advisory file locks that serialize driver
// invocations competing for the same output location.
package filelock

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// retryDelay is how often LockContext polls a held lock.
const retryDelay = 50 * time.Millisecond

// FileLock wraps a flock file lock for coordinating access to an output location.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created at the specified path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// ForOutput returns the lock guarding output name inside dir.
//
// The lock file lives in the system temp directory, keyed by a hash of the
// absolute output path, so nothing extra is left next to user files.
func ForOutput(dir, name string) (*FileLock, error) {
	abs, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve lock target %s: %w", name, err)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(abs))
	lockPath := filepath.Join(os.TempDir(), fmt.Sprintf("proofdriver-%s-%016x.lock", name, h.Sum64()))
	return NewFileLock(lockPath), nil
}

// Path returns the lock file location.
func (fl *FileLock) Path() string {
	return fl.path
}

// LockContext acquires the lock, polling until it is free or ctx is done.
func (fl *FileLock) LockContext(ctx context.Context) error {
	acquired, err := fl.flock.TryLockContext(ctx, retryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	if !acquired {
		return fmt.Errorf("failed to acquire lock on %s", fl.path)
	}
	return nil
}

// Unlock releases the lock.
// Returns an error if the unlock operation fails.
func (fl *FileLock) Unlock() error {
	err := fl.flock.Unlock()
	if err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}
