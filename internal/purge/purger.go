// Package purge removes allow-listed cache paths with per-item fault
// isolation: one locked folder must never block cleanup of its siblings.
package purge

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
)

// Deleter abstracts filesystem delete operations. The indirection lets
// dry-run substitute a no-op and lets tests inject failures to prove
// fault isolation.
type Deleter interface {
	Remove(path string) error
	RemoveAll(path string) error
}

// OSDeleter deletes for real.
type OSDeleter struct{}

func (OSDeleter) Remove(path string) error    { return os.Remove(path) }
func (OSDeleter) RemoveAll(path string) error { return os.RemoveAll(path) }

// NopDeleter performs no deletion. Used for --dry-run, where the batch
// still measures and counts as if every delete succeeded.
type NopDeleter struct{}

func (NopDeleter) Remove(string) error    { return nil }
func (NopDeleter) RemoveAll(string) error { return nil }

// Result is the outcome of one purge item.
type Result struct {
	Path       string
	BytesFreed int64
	Err        error
}

// OK reports whether the item was removed.
func (r Result) OK() bool { return r.Err == nil }

// Batch accumulates a purge phase. Absent paths are skipped and do not
// count as attempted; bytes accumulate from successes only.
type Batch struct {
	Attempted  int
	Succeeded  int
	Skipped    int
	BytesFreed int64
	Results    []Result
}

// Merge folds another batch into this one.
func (b *Batch) Merge(other Batch) {
	b.Attempted += other.Attempted
	b.Succeeded += other.Succeeded
	b.Skipped += other.Skipped
	b.BytesFreed += other.BytesFreed
	b.Results = append(b.Results, other.Results...)
}

func (b *Batch) record(r Result) {
	b.Attempted++
	if r.OK() {
		b.Succeeded++
		b.BytesFreed += r.BytesFreed
	}
	b.Results = append(b.Results, r)
}

// Purger deletes configured paths, measuring each before removal so the
// report can attribute freed bytes per item.
type Purger struct {
	scanner *scan.Scanner
	del     Deleter
	guard   map[string]bool

	// OnItem, when set, observes every attempted item as it completes.
	OnItem func(Result)
}

// New creates a Purger. guardPaths are absolute paths that are refused
// outright (config.NeverDeletePaths).
func New(scanner *scan.Scanner, del Deleter, guardPaths []string) *Purger {
	guard := make(map[string]bool, len(guardPaths))
	for _, p := range guardPaths {
		guard[normalizePath(p)] = true
	}
	return &Purger{scanner: scanner, del: del, guard: guard}
}

// PurgeRelative removes each allow-listed subpath under root. Paths that
// do not exist are skipped, not failed. Per-item failure never aborts
// the batch.
func (p *Purger) PurgeRelative(root string, rels []string) Batch {
	var batch Batch
	for _, rel := range rels {
		target := filepath.Join(root, filepath.FromSlash(rel))
		p.purgeOne(&batch, target)
	}
	return batch
}

// PurgeRoots removes each absolute directory whole, with the same
// skip/fault semantics as PurgeRelative.
func (p *Purger) PurgeRoots(roots []string) Batch {
	var batch Batch
	for _, root := range roots {
		p.purgeOne(&batch, filepath.Clean(root))
	}
	return batch
}

// SweepTempRoots deletes entries inside each temp root whose name
// matches one of the prefixes: files first, then directories. The roots
// themselves are never removed. An unreadable root is skipped.
func (p *Purger) SweepTempRoots(roots []string, prefixes []string) Batch {
	var batch Batch
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			batch.Skipped++
			continue
		}

		var dirs []string
		for _, e := range entries {
			if !matchesPrefix(e.Name(), prefixes) {
				continue
			}
			target := filepath.Join(root, e.Name())
			if e.IsDir() {
				dirs = append(dirs, target)
				continue
			}
			p.purgeOne(&batch, target)
		}
		// Directories go second so a dir entry freed by the file pass
		// (lock released) still gets its chance.
		for _, dir := range dirs {
			p.purgeOne(&batch, dir)
		}
	}
	return batch
}

// purgeOne measures and deletes a single target, recording the outcome.
func (p *Purger) purgeOne(batch *Batch, target string) {
	info, err := os.Lstat(target)
	if err != nil {
		// Already absent: an idempotent no-op, not an attempt.
		batch.Skipped++
		return
	}

	var res Result
	res.Path = target

	switch {
	case p.guard[normalizePath(target)]:
		res.Err = fmt.Errorf("refusing to delete protected path %s", target)
	default:
		size := p.scanner.DirSize(target)
		var delErr error
		if info.IsDir() {
			delErr = p.del.RemoveAll(target)
		} else {
			delErr = p.del.Remove(target)
		}
		if delErr != nil {
			res.Err = delErr
		} else {
			res.BytesFreed = size
		}
	}

	batch.record(res)
	if p.OnItem != nil {
		p.OnItem(res)
	}
}

func matchesPrefix(name string, prefixes []string) bool {
	for _, pre := range prefixes {
		if pre != "" && strings.HasPrefix(name, pre) {
			return true
		}
	}
	return false
}

func normalizePath(path string) string {
	path = filepath.Clean(path)
	if runtime.GOOS == "windows" {
		path = strings.ToLower(path)
	}
	return path
}
