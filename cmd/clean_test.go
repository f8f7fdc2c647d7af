package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestGraceFlagPrecedence(t *testing.T) {
	cleanRoot = t.TempDir()
	defer func() { cleanRoot = "" }()

	// Unset flag keeps the configured default.
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GraceSeconds <= 0 {
		t.Fatalf("GraceSeconds = %d, want the positive default", cfg.GraceSeconds)
	}

	// An explicit zero disables the wait entirely.
	if err := cleanCmd.Flags().Set("grace", "0"); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GraceSeconds != 0 {
		t.Fatalf("GraceSeconds = %d, want 0 from --grace 0", cfg.GraceSeconds)
	}
}

func TestScanExitCodes(t *testing.T) {
	if code := runScan(filepath.Join(t.TempDir(), "absent")); code != exitNoRoot {
		t.Errorf("missing root: exit = %d, want %d", code, exitNoRoot)
	}

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforceable here")
	}
	parent := filepath.Join(t.TempDir(), "sealed")
	if err := os.MkdirAll(filepath.Join(parent, "inner"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(parent, 0o000); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(parent, 0o755)

	// The root exists but cannot be reached: not a missing-root exit.
	if code := runScan(filepath.Join(parent, "inner")); code != exitErr {
		t.Errorf("unreachable root: exit = %d, want %d", code, exitErr)
	}
}
