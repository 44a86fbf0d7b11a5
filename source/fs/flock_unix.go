//go:build unix

package fs

import (
	"errors"

	"golang.org/x/sys/unix"
)

// flockExclusive blocks until fd holds an exclusive advisory lock.
func flockExclusive(fd int) error {
	for {
		err := unix.Flock(fd, unix.LOCK_EX)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

func flockUnlock(fd int) error {
	return unix.Flock(fd, unix.LOCK_UN)
}

// isLockNotSupportedError reports errors from filesystems that cannot take
// advisory locks, such as some NFS and SMB mounts.
func isLockNotSupportedError(err error) bool {
	return errors.Is(err, unix.ENOTSUP) ||
		errors.Is(err, unix.EOPNOTSUPP) ||
		errors.Is(err, unix.ENOLCK)
}
