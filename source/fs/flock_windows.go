//go:build windows

package fs

import (
	"errors"
	"math"

	"golang.org/x/sys/windows"
)

// flockExclusive locks the whole file behind the handle fd with LockFileEx.
func flockExclusive(fd int) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(fd), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, math.MaxUint32, math.MaxUint32, ol)
}

func flockUnlock(fd int) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(fd), 0, math.MaxUint32, math.MaxUint32, ol)
}

// isLockNotSupportedError reports errors from redirectors and filesystems
// that do not implement byte-range locks.
func isLockNotSupportedError(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_SUPPORTED) ||
		errors.Is(err, windows.ERROR_INVALID_FUNCTION)
}
