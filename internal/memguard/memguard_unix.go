//go:build !windows

package memguard

import "golang.org/x/sys/unix"

// AvailableRSSLimit returns the process's RLIMIT_AS soft limit in
// bytes, or 0 if unbounded or unreadable — the value CLI startup uses
// to size the default allocation guard instead of the fixed
// DefaultLimit when the operator has configured a tighter ulimit.
func AvailableRSSLimit() uint64 {
	var rlim unix.Rlimit

	if err := unix.Getrlimit(unix.RLIMIT_AS, &rlim); err != nil {
		return 0
	}

	if rlim.Cur == unix.RLIM_INFINITY {
		return 0
	}

	return uint64(rlim.Cur)
}
