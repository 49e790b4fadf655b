//go:build !unix

package lock

import (
	"errors"
	"os"
)

// Platforms without flock get no advisory locking; appends of single
// short lines are still atomic enough for the tracker's use.
func tryLock(*os.File, Mode) error { return nil }

func unlock(*os.File) error { return nil }

func isLocked(err error) bool {
	return errors.Is(err, ErrLocked)
}
