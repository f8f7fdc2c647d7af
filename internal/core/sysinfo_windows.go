//go:build windows

package core

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"
)

// Win32_OperatingSystem mirrors the WMI class of the same name; the wmi
// package derives the query's class name from the struct type.
type Win32_OperatingSystem struct {
	Caption string
}

// OSDescription returns a human-readable OS name, preferring the WMI
// caption (e.g. "Microsoft Windows 11 Pro") and falling back to the
// kernel version numbers when WMI is unavailable.
func OSDescription() string {
	var result []Win32_OperatingSystem
	q := wmi.CreateQuery(&result, "")
	if err := wmi.Query(q, &result); err == nil && len(result) > 0 && result[0].Caption != "" {
		return result[0].Caption
	}
	return windowsVersionString()
}

// windowsVersionString derives a display name from RtlGetNtVersionNumbers,
// which works on all Windows versions without manifest requirements.
func windowsVersionString() string {
	major, minor, build := windows.RtlGetNtVersionNumbers()
	build &= 0xFFFF

	var name string
	switch {
	case major == 10 && build >= 22000:
		name = "Windows 11"
	case major == 10:
		name = "Windows 10"
	case major == 6 && minor == 3:
		name = "Windows 8.1"
	case major == 6 && minor == 1:
		name = "Windows 7"
	default:
		name = fmt.Sprintf("Windows %d.%d", major, minor)
	}

	return fmt.Sprintf("%s (Build %d)", name, build)
}
