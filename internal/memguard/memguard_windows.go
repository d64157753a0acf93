//go:build windows

package memguard

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// AvailableRSSLimit returns the total physical memory reported by the
// OS in bytes, or 0 if unreadable — the Windows counterpart of the
// Unix RLIMIT_AS based guard.
func AvailableRSSLimit() uint64 {
	var status windows.MemoryStatusEx
	status.Length = uint32(unsafe.Sizeof(status))

	if err := windows.GlobalMemoryStatusEx(&status); err != nil {
		return 0
	}

	return status.TotalPhys
}
