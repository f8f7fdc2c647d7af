// Package engine sequences a cleanup run through its fixed phases:
// scan the baseline, stop lock holders, purge the cache allow-list,
// sweep temp roots, scan again, report. Phases are strictly sequential
// because each depends on the side effects of the previous one.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
	"github.com/lakshaymaurya-felt/cachemole/internal/proc"
	"github.com/lakshaymaurya-felt/cachemole/internal/purge"
	"github.com/lakshaymaurya-felt/cachemole/internal/report"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
)

// Phase identifies a run state. Transitions are linear; the only branch
// is Init -> Failed when the baseline scan cannot find the root.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseScanBefore
	PhaseTerminate
	PhasePurgeCache
	PhasePurgeTemp
	PhaseScanAfter
	PhaseReported
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseScanBefore:
		return "measuring baseline"
	case PhaseTerminate:
		return "stopping processes"
	case PhasePurgeCache:
		return "purging caches"
	case PhasePurgeTemp:
		return "sweeping temp"
	case PhaseScanAfter:
		return "measuring result"
	case PhaseReported:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Callbacks observe run progress. All fields are optional.
type Callbacks struct {
	OnPhase     func(Phase)
	OnItem      func(purge.Result)
	OnProcesses func(proc.Result)
	OnWarning   func(string)
}

func (c Callbacks) phase(p Phase) {
	if c.OnPhase != nil {
		c.OnPhase(p)
	}
}

func (c Callbacks) warn(msg string) {
	if c.OnWarning != nil {
		c.OnWarning(msg)
	}
}

// Options configure a run.
type Options struct {
	Config      config.Config
	DryRun      bool // measure and count, delete nothing, kill nothing
	NoKill      bool // skip the terminate phase
	Concurrency int
	Callbacks   Callbacks

	// Deleter and Terminator default to the real implementations;
	// tests substitute fakes.
	Deleter    purge.Deleter
	Terminator *proc.Terminator
}

// Engine runs one cleanup. Not reusable across runs.
type Engine struct {
	opts    Options
	phase   Phase
	scanner *scan.Scanner
}

// New creates an engine, filling in default collaborators.
func New(opts Options) *Engine {
	if opts.Deleter == nil {
		if opts.DryRun {
			opts.Deleter = purge.NopDeleter{}
		} else {
			opts.Deleter = purge.OSDeleter{}
		}
	}
	if opts.Terminator == nil {
		opts.Terminator = proc.New()
	}
	return &Engine{
		opts:    opts,
		phase:   PhaseInit,
		scanner: scan.NewScanner(opts.Concurrency),
	}
}

// Phase returns the current run state.
func (e *Engine) Phase() Phase { return e.phase }

// Run executes the full sequence. Only a missing root is fatal; every
// other failure is folded into counters and the final report.
func (e *Engine) Run(ctx context.Context) (report.CleanupReport, error) {
	start := time.Now()
	cfg := e.opts.Config
	cb := e.opts.Callbacks

	if err := cfg.Validate(); err != nil {
		e.phase = PhaseFailed
		return report.CleanupReport{}, err
	}

	// Baseline scan. Without it there is nothing to diff against, so a
	// missing root aborts before anything is touched.
	e.transition(PhaseScanBefore)
	before, err := e.scanner.Scan(cfg.Root)
	if err != nil {
		e.phase = PhaseFailed
		return report.CleanupReport{}, fmt.Errorf("scan %s: %w", cfg.Root, err)
	}
	e.forwardWarnings(before.Warnings)

	// Stop lock holders, then give file handles a moment to release.
	var termRes proc.Result
	if !e.opts.NoKill && !e.opts.DryRun && len(cfg.Processes) > 0 {
		e.transition(PhaseTerminate)
		termRes, err = e.opts.Terminator.Terminate(ctx, cfg.Processes)
		if err != nil {
			cb.warn("process listing failed: " + err.Error())
		}
		if cb.OnProcesses != nil {
			cb.OnProcesses(termRes)
		}
		if termRes.Killed > 0 {
			e.wait(ctx, cfg.Grace())
		}
	}

	purger := purge.New(e.scanner, e.opts.Deleter, config.NeverDeletePaths())
	purger.OnItem = cb.OnItem

	e.transition(PhasePurgeCache)
	cacheBatch := purger.PurgeRelative(cfg.Root, cfg.CachePaths)
	cacheBatch.Merge(purger.PurgeRoots(cfg.DriverRoots))

	e.transition(PhasePurgeTemp)
	tempBatch := purger.SweepTempRoots(cfg.TempRoots, cfg.TempPrefixes)

	e.transition(PhaseScanAfter)
	after, err := e.scanner.Scan(cfg.Root)
	if err != nil {
		// The root itself was in the allow-list's blast radius or
		// vanished concurrently; report against an empty result.
		after = scan.Snapshot{Root: cfg.Root}
	}
	e.forwardWarnings(after.Warnings)

	rep := report.Compute(before, after, cacheBatch, tempBatch)
	rep.ProcsKilled = termRes.Killed
	rep.ProcsUnstoppable = len(termRes.Failed)
	rep.Duration = time.Since(start)
	rep.DryRun = e.opts.DryRun

	e.transition(PhaseReported)
	return rep, nil
}

func (e *Engine) transition(p Phase) {
	e.phase = p
	e.opts.Callbacks.phase(p)
}

func (e *Engine) forwardWarnings(warnings []string) {
	for _, w := range warnings {
		e.opts.Callbacks.warn(w)
	}
}

// wait sleeps for the grace period, returning early on ctx cancellation.
func (e *Engine) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
