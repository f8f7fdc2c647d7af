// Package scan measures recursive disk usage under a root directory.
// Snapshots taken before and after a purge are diffed into the final
// report, so scanning must never mutate anything.
package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrRootNotFound is returned when the scan root does not exist. The
// caller treats this as fatal: no cleanup runs without a baseline.
var ErrRootNotFound = errors.New("scan root not found")

// Snapshot is a point-in-time measurement of usage under a root.
// Immutable once produced.
type Snapshot struct {
	Root       string
	TotalBytes int64
	PerFolder  map[string]int64 // immediate child name -> recursive bytes
	TakenAt    time.Time
	Warnings   []string
}

// Scanner performs parallel recursive size scans with bounded
// concurrency. Unreadable entries are skipped and contribute zero:
// partial visibility is expected on a live filesystem, so a skip is a
// warning, never an error.
type Scanner struct {
	sem      chan struct{}
	mu       sync.Mutex
	warnings []string
	visited  atomic.Int64
}

// NewScanner creates a scanner. maxConcurrency bounds simultaneous
// directory reads; parallelism is a pure optimization and does not
// change observable totals.
func NewScanner(maxConcurrency int) *Scanner {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	return &Scanner{sem: make(chan struct{}, maxConcurrency)}
}

// Visited returns the number of entries seen so far, for progress display.
func (s *Scanner) Visited() int64 {
	return s.visited.Load()
}

func (s *Scanner) addWarning(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < 500 {
		s.warnings = append(s.warnings, msg)
	}
}

func (s *Scanner) takeWarnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.warnings
	s.warnings = nil
	return w
}

// Scan measures the root recursively and returns a snapshot with
// per-immediate-child totals.
func (s *Scanner) Scan(root string) (Snapshot, error) {
	root = filepath.Clean(root)

	info, err := os.Lstat(longPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, ErrRootNotFound
		}
		return Snapshot{}, err
	}

	snap := Snapshot{
		Root:      root,
		PerFolder: make(map[string]int64),
		TakenAt:   time.Now(),
	}

	if !info.IsDir() {
		snap.TotalBytes = info.Size()
		snap.Warnings = s.takeWarnings()
		return snap, nil
	}

	entries, err := os.ReadDir(longPath(root))
	if err != nil {
		s.addWarning("cannot read " + root + ": " + err.Error())
		snap.Warnings = s.takeWarnings()
		return snap, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, e := range entries {
		childPath := filepath.Join(root, e.Name())
		s.visited.Add(1)

		if skipLink(e, childPath) {
			continue
		}

		if !e.IsDir() {
			size := s.fileSize(e, childPath)
			mu.Lock()
			snap.PerFolder[e.Name()] += size
			snap.TotalBytes += size
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(name, dir string) {
			defer wg.Done()
			size := s.dirSize(dir)
			mu.Lock()
			snap.PerFolder[name] = size
			snap.TotalBytes += size
			mu.Unlock()
		}(e.Name(), childPath)
	}
	wg.Wait()

	snap.Warnings = s.takeWarnings()
	return snap, nil
}

// DirSize returns the recursive byte total of a single path with the
// same silent-skip policy as Scan. A missing path measures zero.
func (s *Scanner) DirSize(path string) int64 {
	info, err := os.Lstat(longPath(path))
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}
	return s.dirSize(filepath.Clean(path))
}

// dirSize recursively sums a directory, holding the semaphore only
// during the ReadDir I/O so nested goroutines cannot deadlock on it.
func (s *Scanner) dirSize(dir string) int64 {
	s.sem <- struct{}{}
	entries, err := os.ReadDir(longPath(dir))
	<-s.sem

	if err != nil {
		s.addWarning("cannot read " + dir + ": " + err.Error())
		return 0
	}

	var total atomic.Int64
	var wg sync.WaitGroup
	for _, e := range entries {
		childPath := filepath.Join(dir, e.Name())
		s.visited.Add(1)

		if skipLink(e, childPath) {
			continue
		}

		if e.IsDir() {
			wg.Add(1)
			go func(d string) {
				defer wg.Done()
				total.Add(s.dirSize(d))
			}(childPath)
			continue
		}

		total.Add(s.fileSize(e, childPath))
	}
	wg.Wait()

	return total.Load()
}

func (s *Scanner) fileSize(e fs.DirEntry, path string) int64 {
	info, err := e.Info()
	if err != nil {
		s.addWarning("cannot stat " + path + ": " + err.Error())
		return 0
	}
	return info.Size()
}

// skipLink reports whether the entry is a symlink, junction, or other
// irregular file. Links are never followed — cycle risk — and count
// zero bytes.
func skipLink(e fs.DirEntry, _ string) bool {
	return e.Type()&(fs.ModeSymlink|fs.ModeIrregular) != 0
}

// longPath adds the \\?\ prefix for paths exceeding MAX_PATH on Windows.
func longPath(path string) string {
	if runtime.GOOS == "windows" && len(path) >= 260 && !strings.HasPrefix(path, `\\?\`) {
		return `\\?\` + filepath.Clean(path)
	}
	return path
}
