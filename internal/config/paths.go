package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/lakshaymaurya-felt/cachemole/internal/envutil"
)

// userProfile returns the user's home directory.
func userProfile() string {
	if runtime.GOOS == "windows" {
		if p := os.Getenv("USERPROFILE"); p != "" {
			return p
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// localAppData returns the local app data directory on Windows.
func localAppData() string {
	return os.Getenv("LOCALAPPDATA")
}

// appData returns the roaming app data directory on Windows.
func appData() string {
	return os.Getenv("APPDATA")
}

// winDir returns the Windows directory (e.g., C:\Windows).
// Falls back to C:\Windows only if %WINDIR% is not set.
func winDir() string {
	if w := os.Getenv("WINDIR"); w != "" {
		return w
	}
	return `C:\Windows`
}

// systemDrive returns the system drive letter with backslash (e.g., C:\).
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return d + `\`
	}
	return `C:\`
}

// programFiles returns the Program Files directory.
func programFiles() string {
	if p := os.Getenv("PROGRAMFILES"); p != "" {
		return p
	}
	return `C:\Program Files`
}

// defaultBrowserRoot returns the Chrome profile directory for the
// current platform. The cache allow-list is relative to it.
func defaultBrowserRoot() string {
	home := userProfile()
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(localAppData(), "Google", "Chrome", "User Data", "Default")
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "Google", "Chrome", "Default")
	default:
		return filepath.Join(home, ".cache", "google-chrome", "Default")
	}
}

// defaultDriverRoots returns standalone cache directories created by
// chromedriver wrappers. These are purged whole, not via the allow-list.
func defaultDriverRoots() []string {
	home := userProfile()
	roots := []string{
		filepath.Join(home, ".undetected_chromedriver"),
		filepath.Join(os.TempDir(), "undetected_chromedriver"),
	}
	if runtime.GOOS == "windows" {
		if roaming := appData(); roaming != "" {
			roots = append(roots, filepath.Join(roaming, "undetected_chromedriver"))
		}
	}
	return roots
}

// defaultTempRoots returns the temp directories swept for stale browser
// profile leftovers.
func defaultTempRoots() []string {
	roots := []string{os.TempDir()}
	if runtime.GOOS == "windows" {
		sysTemp := filepath.Join(winDir(), "Temp")
		if filepath.Clean(sysTemp) != filepath.Clean(os.TempDir()) {
			roots = append(roots, sysTemp)
		}
	}
	return roots
}

// NeverDeletePaths returns paths that must NEVER be removed recursively,
// regardless of configuration. Checked by the purger before every delete.
func NeverDeletePaths() []string {
	paths := []string{string(filepath.Separator)}
	if home := userProfile(); home != "" {
		paths = append(paths, home)
	}

	if runtime.GOOS == "windows" {
		w := winDir()
		sd := systemDrive()
		paths = append(paths,
			sd,
			w,
			filepath.Join(w, "System32"),
			filepath.Join(w, "SysWOW64"),
			programFiles(),
			filepath.Join(sd, "Users"),
			filepath.Join(sd, "Boot"),
			filepath.Join(sd, "Recovery"),
		)
	} else {
		paths = append(paths,
			"/bin", "/boot", "/etc", "/home", "/lib", "/opt",
			"/root", "/sbin", "/usr", "/var",
		)
	}

	return paths
}

// ExpandPath resolves environment variables and returns a cleaned path.
func ExpandPath(path string) string {
	return filepath.Clean(envutil.ExpandEnv(path))
}
