// Package lock provides advisory locks on open files. Readers take a shared
// lock, writers an exclusive one; the lock is per open file description,
// so it also serializes goroutines that opened the file separately.
package lock

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rileyhilliard/cmdtree/internal/errors"
)

// Mode selects shared or exclusive locking.
type Mode int

const (
	Shared Mode = iota
	Exclusive
)

func (m Mode) String() string {
	if m == Exclusive {
		return "exclusive"
	}
	return "shared"
}

// pollInterval is how long Acquire waits between attempts.
const pollInterval = 10 * time.Millisecond

// Lock is an acquired lock on a file.
type Lock struct {
	Mode Mode
	file *os.File
}

// TryAcquire takes the lock without waiting. It returns ErrLocked when a
// conflicting lock is held.
func TryAcquire(f *os.File, mode Mode) (*Lock, error) {
	if f == nil {
		return nil, errors.New(errors.ErrLock,
			"Cannot lock: no file",
			"Open the file before locking it")
	}
	if err := tryLock(f, mode); err != nil {
		return nil, err
	}
	return &Lock{Mode: mode, file: f}, nil
}

// Acquire takes the lock, retrying until it is granted, timeout elapses or
// ctx is cancelled. A zero timeout waits for ctx alone.
func Acquire(ctx context.Context, f *os.File, mode Mode, timeout time.Duration) (*Lock, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	for {
		l, err := TryAcquire(f, mode)
		if err == nil {
			return l, nil
		}
		if !isLocked(err) {
			return nil, errors.WrapWithCode(err, errors.ErrLock,
				fmt.Sprintf("Failed to take %s lock on %s", mode, f.Name()),
				"Check the file's permissions")
		}

		select {
		case <-ctx.Done():
			return nil, errors.WrapWithCode(ctx.Err(), errors.ErrLock,
				fmt.Sprintf("Timed out waiting for %s lock on %s", mode, f.Name()),
				"Another process is writing to the file; try again")
		case <-time.After(pollInterval):
		}
	}
}

// Release drops the lock. Releasing a nil lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unlock(l.file)
	l.file = nil
	return err
}
