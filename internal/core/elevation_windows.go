//go:build windows

package core

import "golang.org/x/sys/windows"

// IsElevated reports whether the process token carries administrator
// elevation. System temp and service caches are not writable without it.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
