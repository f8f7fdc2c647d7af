// Package config defines the cleanup run configuration: the browser root,
// the relative cache allow-list, standalone purge roots, temp sweep
// settings, and the processes stopped before purging.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNoRoot is returned when no browser root could be determined.
	ErrNoRoot = errors.New("no target root configured")

	// ErrBadAllowList is returned when an allow-list entry is not a
	// plain relative subpath.
	ErrBadAllowList = errors.New("allow-list entry must be a relative subpath")
)

// Config describes one cleanup run. All paths are stored expanded.
type Config struct {
	// Root is the browser profile directory the allow-list applies to.
	Root string `json:"root"`

	// CachePaths is the ordered allow-list of subpaths under Root that
	// are safe to delete. Entries are relative; "/" works on all
	// platforms and is converted on use.
	CachePaths []string `json:"cache_paths"`

	// DriverRoots are standalone directories purged whole (webdriver
	// caches and similar). Missing entries are skipped.
	DriverRoots []string `json:"driver_roots"`

	// TempRoots are temp directories swept for entries matching
	// TempPrefixes. The roots themselves are never removed.
	TempRoots []string `json:"temp_roots"`

	// TempPrefixes filters which temp-root entries are deleted.
	TempPrefixes []string `json:"temp_prefixes"`

	// Processes are the process names terminated before purging,
	// matched case-insensitively, with or without ".exe".
	Processes []string `json:"processes"`

	// GraceSeconds is the wait after termination before purging starts,
	// giving file handles time to release.
	GraceSeconds int `json:"grace_seconds"`
}

// Default returns the built-in configuration reproducing the classic
// Chrome/chromedriver cleanup scope for the current platform.
func Default() Config {
	return Config{
		Root: defaultBrowserRoot(),
		CachePaths: []string{
			"Cache",
			"Code Cache",
			"GPUCache",
			"Service Worker/CacheStorage",
			"Service Worker/ScriptCache",
			"ShaderCache",
			"DawnCache",
			"Media Cache",
		},
		DriverRoots:  defaultDriverRoots(),
		TempRoots:    defaultTempRoots(),
		TempPrefixes: []string{"chrome_", "scoped_dir", ".com.google.Chrome"},
		Processes:    []string{"chrome", "chromedriver"},
		GraceSeconds: 2,
	}
}

// Load reads a JSON config file and overlays it on the defaults.
// Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := json.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.merge(file)
	cfg.expand()
	return cfg, nil
}

// merge overlays non-zero fields from other.
func (c *Config) merge(other Config) {
	if other.Root != "" {
		c.Root = other.Root
	}
	if other.CachePaths != nil {
		c.CachePaths = other.CachePaths
	}
	if other.DriverRoots != nil {
		c.DriverRoots = other.DriverRoots
	}
	if other.TempRoots != nil {
		c.TempRoots = other.TempRoots
	}
	if other.TempPrefixes != nil {
		c.TempPrefixes = other.TempPrefixes
	}
	if other.Processes != nil {
		c.Processes = other.Processes
	}
	if other.GraceSeconds > 0 {
		c.GraceSeconds = other.GraceSeconds
	}
}

// expand resolves environment variables in every configured path.
func (c *Config) expand() {
	c.Root = ExpandPath(c.Root)
	for i, p := range c.DriverRoots {
		c.DriverRoots[i] = ExpandPath(p)
	}
	for i, p := range c.TempRoots {
		c.TempRoots[i] = ExpandPath(p)
	}
}

// Validate checks structural soundness. Existence of the root is the
// engine's concern, not config's.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return ErrNoRoot
	}
	for _, rel := range c.CachePaths {
		if rel == "" || filepath.IsAbs(rel) {
			return fmt.Errorf("%w: %q", ErrBadAllowList, rel)
		}
		clean := filepath.Clean(filepath.FromSlash(rel))
		if clean == "." {
			return fmt.Errorf("%w: %q names the root itself", ErrBadAllowList, rel)
		}
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return fmt.Errorf("%w: %q escapes the root", ErrBadAllowList, rel)
		}
	}
	if c.GraceSeconds < 0 {
		return fmt.Errorf("grace_seconds must not be negative: %d", c.GraceSeconds)
	}
	return nil
}

// Grace returns the post-termination wait as a duration.
func (c *Config) Grace() time.Duration {
	return time.Duration(c.GraceSeconds) * time.Second
}
