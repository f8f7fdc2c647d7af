// Package proc stops processes that hold locks on the files about to be
// purged. Termination is best-effort: a refusal degrades later purge
// effectiveness but never halts the run.
package proc

import (
	"context"
	"errors"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Proc is the subset of process operations the terminator needs.
// Narrowed from gopsutil so tests can substitute a fake table.
type Proc interface {
	Pid() int32
	Name() (string, error)
	Kill() error
}

// Lister enumerates running processes.
type Lister interface {
	Processes(ctx context.Context) ([]Proc, error)
}

// Failure records one process that could not be stopped.
type Failure struct {
	Pid  int32
	Name string
	Err  error
}

// Result summarizes a termination batch.
type Result struct {
	Matched int
	Killed  int
	Failed  []Failure
}

// Terminator kills processes by name.
type Terminator struct {
	lister Lister
}

// New creates a Terminator backed by the real process table.
func New() *Terminator {
	return &Terminator{lister: systemLister{}}
}

// NewWithLister creates a Terminator with a custom process source.
func NewWithLister(l Lister) *Terminator {
	return &Terminator{lister: l}
}

// Terminate forcefully stops every running process whose name matches
// one of names (case-insensitive, ".exe" optional). A process that is
// already gone counts as killed. Listing failure is returned but the
// partial result is still valid.
func (t *Terminator) Terminate(ctx context.Context, names []string) (Result, error) {
	var res Result
	if len(names) == 0 {
		return res, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[normalizeName(n)] = true
	}

	procs, err := t.lister.Processes(ctx)
	if err != nil {
		return res, err
	}

	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			// Raced with process exit or access denied on a system
			// process; neither is ours to kill.
			continue
		}
		if !wanted[normalizeName(name)] {
			continue
		}

		res.Matched++
		if err := p.Kill(); err != nil {
			if isAlreadyGone(err) {
				res.Killed++
				continue
			}
			res.Failed = append(res.Failed, Failure{Pid: p.Pid(), Name: name, Err: err})
			continue
		}
		res.Killed++
	}

	return res, nil
}

// normalizeName lowercases and strips a trailing ".exe" so configs can
// name processes either way on any platform.
func normalizeName(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".exe")
}

func isAlreadyGone(err error) bool {
	return errors.Is(err, process.ErrorProcessNotRunning)
}

// ─── gopsutil adapter ────────────────────────────────────────────────────────

type systemLister struct{}

func (systemLister) Processes(ctx context.Context) ([]Proc, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Proc, 0, len(procs))
	for _, p := range procs {
		out = append(out, sysProc{p})
	}
	return out, nil
}

type sysProc struct {
	p *process.Process
}

func (s sysProc) Pid() int32            { return s.p.Pid }
func (s sysProc) Name() (string, error) { return s.p.Name() }
func (s sysProc) Kill() error           { return s.p.Kill() }
