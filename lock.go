package clish

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// lockRetries and lockRetryInterval implement spec.md §6's "retries
// once per second up to 20 attempts" contract for the whole-file
// advisory write lock taken around action execution.
const (
	lockRetries       = 20
	lockRetryInterval = time.Second
)

// FileLock is a whole-file advisory write lock (flock(2)), held for the
// duration of one action's execution.
type FileLock struct {
	f *os.File
}

// AcquireLock opens path and takes an exclusive, non-blocking flock,
// retrying on EAGAIN/EACCES per the retry policy above. Passing
// lockless=true skips the lock entirely, per the --lockless CLI flag.
func AcquireLock(path string, lockless bool) (*FileLock, error) {
	if lockless {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("clish: open lock file %q: %w", path, err)
	}

	for attempt := 0; ; attempt++ {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &FileLock{f: f}, nil
		}

		if err != unix.EAGAIN && err != unix.EACCES {
			f.Close()
			return nil, fmt.Errorf("clish: flock %q: %w", path, err)
		}

		if attempt >= lockRetries-1 {
			f.Close()
			return nil, fmt.Errorf("clish: flock %q: timed out after %d attempts", path, lockRetries)
		}

		time.Sleep(lockRetryInterval)
	}
}

// Release drops the lock and closes the underlying file descriptor. A
// nil FileLock (the --lockless case) is a no-op.
func (l *FileLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		l.f.Close()
		return fmt.Errorf("clish: unlock: %w", err)
	}
	return l.f.Close()
}
