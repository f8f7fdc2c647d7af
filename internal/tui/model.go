// Package tui renders the interactive clean run: a phase checklist with
// a spinner and progress bar, ending in the summary block. Plain-output
// mode bypasses this package entirely.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/cachemole/internal/engine"
	"github.com/lakshaymaurya-felt/cachemole/internal/proc"
	"github.com/lakshaymaurya-felt/cachemole/internal/purge"
	"github.com/lakshaymaurya-felt/cachemole/internal/report"
	"github.com/lakshaymaurya-felt/cachemole/internal/ui"
)

// visiblePhases is the ordered checklist shown to the user.
var visiblePhases = []engine.Phase{
	engine.PhaseScanBefore,
	engine.PhaseTerminate,
	engine.PhasePurgeCache,
	engine.PhasePurgeTemp,
	engine.PhaseScanAfter,
}

const maxRecentItems = 6

// ─── Messages ────────────────────────────────────────────────────────────────

type phaseMsg engine.Phase

type itemMsg purge.Result

type procsMsg proc.Result

type warnMsg string

type doneMsg struct {
	rep report.CleanupReport
	err error
}

// ─── Model ───────────────────────────────────────────────────────────────────

// CleanModel is the bubbletea Model for a cleanup run.
type CleanModel struct {
	root   string
	dryRun bool

	spin spinner.Model
	bar  progress.Model

	events chan tea.Msg
	runFn  func() (report.CleanupReport, error)

	phase    engine.Phase
	recent   []purge.Result
	procs    *proc.Result
	warnings int

	rep      *report.CleanupReport
	err      error
	width    int
	quitting bool
}

// NewCleanModel wires a model around an engine configured elsewhere.
// The engine's callbacks must already point at the channel returned by
// Events.
func NewCleanModel(root string, dryRun bool, events chan tea.Msg, runFn func() (report.CleanupReport, error)) CleanModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = ui.StyleTitle

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(36))

	return CleanModel{
		root:   root,
		dryRun: dryRun,
		spin:   sp,
		bar:    bar,
		events: events,
		runFn:  runFn,
		phase:  engine.PhaseInit,
		width:  80,
	}
}

// Callbacks returns engine callbacks that forward progress into the model.
func Callbacks(events chan tea.Msg) engine.Callbacks {
	return engine.Callbacks{
		OnPhase: func(p engine.Phase) { events <- phaseMsg(p) },
		OnItem:  func(r purge.Result) { events <- itemMsg(r) },
		OnProcesses: func(r proc.Result) {
			events <- procsMsg(r)
		},
		OnWarning: func(w string) { events <- warnMsg(w) },
	}
}

func (m CleanModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.startRun(), m.nextEvent())
}

// startRun launches the engine and reports its completion. Init calls
// it exactly once.
func (m CleanModel) startRun() tea.Cmd {
	run := m.runFn
	events := m.events
	return func() tea.Msg {
		rep, err := run()
		events <- doneMsg{rep: rep, err: err}
		return nil
	}
}

// nextEvent pumps one engine event into the update loop.
func (m CleanModel) nextEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

func (m CleanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		// The keyboard never cancels the run: quit keys collapse the
		// view, and the program exits when the engine reports.
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	case phaseMsg:
		m.phase = engine.Phase(msg)
		return m, tea.Batch(m.bar.SetPercent(m.fractionDone()), m.nextEvent())

	case itemMsg:
		m.recent = append(m.recent, purge.Result(msg))
		if len(m.recent) > maxRecentItems {
			m.recent = m.recent[1:]
		}
		return m, m.nextEvent()

	case procsMsg:
		r := proc.Result(msg)
		m.procs = &r
		return m, m.nextEvent()

	case warnMsg:
		m.warnings++
		return m, m.nextEvent()

	case doneMsg:
		m.rep = &msg.rep
		m.err = msg.err
		if m.err == nil {
			m.phase = engine.PhaseReported
		} else {
			m.phase = engine.PhaseFailed
		}
		return m, tea.Sequence(m.bar.SetPercent(1), tea.Quit)
	}

	return m, nil
}

// fractionDone maps the current phase onto the progress bar.
func (m CleanModel) fractionDone() float64 {
	for i, p := range visiblePhases {
		if p == m.phase {
			return float64(i) / float64(len(visiblePhases))
		}
	}
	if m.phase == engine.PhaseReported {
		return 1
	}
	return 0
}

// Report returns the final report once the program has finished.
func (m CleanModel) Report() (report.CleanupReport, error) {
	if m.rep == nil {
		return report.CleanupReport{}, fmt.Errorf("run did not complete")
	}
	return *m.rep, m.err
}

// Run drives a full interactive cleanup and returns its report.
func Run(root string, dryRun bool, events chan tea.Msg, runFn func() (report.CleanupReport, error)) (report.CleanupReport, error) {
	model := NewCleanModel(root, dryRun, events, runFn)
	out, err := tea.NewProgram(model).Run()
	if err != nil {
		return report.CleanupReport{}, err
	}
	final := out.(CleanModel)
	return final.Report()
}

// RunEngine is the default runFn: it executes the engine with a
// background context, matching the no-mid-phase-cancellation policy.
func RunEngine(e *engine.Engine) func() (report.CleanupReport, error) {
	return func() (report.CleanupReport, error) {
		return e.Run(context.Background())
	}
}
