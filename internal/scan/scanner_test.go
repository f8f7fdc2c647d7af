package scan

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeFile creates a file of the given size under dir, making parents.
func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanTotalsAndPerFolder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cache", "data_0"), 1000)
	writeFile(t, filepath.Join(root, "Cache", "blocks", "data_1"), 500)
	writeFile(t, filepath.Join(root, "GPUCache", "index"), 300)
	writeFile(t, filepath.Join(root, "Bookmarks"), 50)

	snap, err := NewScanner(4).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	if snap.TotalBytes != 1850 {
		t.Errorf("TotalBytes = %d, want 1850", snap.TotalBytes)
	}
	if got := snap.PerFolder["Cache"]; got != 1500 {
		t.Errorf("PerFolder[Cache] = %d, want 1500", got)
	}
	if got := snap.PerFolder["GPUCache"]; got != 300 {
		t.Errorf("PerFolder[GPUCache] = %d, want 300", got)
	}
	if got := snap.PerFolder["Bookmarks"]; got != 50 {
		t.Errorf("PerFolder[Bookmarks] = %d, want 50", got)
	}
	if snap.Root != root {
		t.Errorf("Root = %q, want %q", snap.Root, root)
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := NewScanner(0).Scan(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("err = %v, want ErrRootNotFound", err)
	}
}

func TestScanEmptyRoot(t *testing.T) {
	snap, err := NewScanner(0).Scan(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if snap.TotalBytes != 0 {
		t.Errorf("TotalBytes = %d, want 0", snap.TotalBytes)
	}
	if len(snap.PerFolder) != 0 {
		t.Errorf("PerFolder = %v, want empty", snap.PerFolder)
	}
}

func TestScanDoesNotFollowSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}

	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "big"), 4096)
	writeFile(t, filepath.Join(root, "real"), 100)
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Fatal(err)
	}

	snap, err := NewScanner(2).Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if snap.TotalBytes != 100 {
		t.Errorf("TotalBytes = %d, want 100 (link must count zero)", snap.TotalBytes)
	}
}

func TestScanSkipsUnreadable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforceable here")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok", "a"), 200)
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "hidden"), 999)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	snap, err := NewScanner(2).Scan(root)
	if err != nil {
		t.Fatalf("unreadable subdir must not fail the scan: %v", err)
	}
	if snap.TotalBytes != 200 {
		t.Errorf("TotalBytes = %d, want 200", snap.TotalBytes)
	}
	if len(snap.Warnings) == 0 {
		t.Error("expected a warning for the unreadable directory")
	}
}

func TestDirSizeMissingPath(t *testing.T) {
	if got := NewScanner(0).DirSize(filepath.Join(t.TempDir(), "gone")); got != 0 {
		t.Errorf("DirSize = %d, want 0", got)
	}
}

func TestDirSizeFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f")
	writeFile(t, path, 123)
	if got := NewScanner(0).DirSize(path); got != 123 {
		t.Errorf("DirSize = %d, want 123", got)
	}
}
