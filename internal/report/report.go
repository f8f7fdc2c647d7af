// Package report turns before/after snapshots and purge batches into the
// final cleanup summary. Pure computation; rendering is the only output.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/cachemole/internal/purge"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
	"github.com/lakshaymaurya-felt/cachemole/internal/ui"
)

// CleanupReport is the derived result of a full run. Not persisted.
type CleanupReport struct {
	Root         string
	BeforeBytes  int64
	AfterBytes   int64
	SavedBytes   int64 // may be negative: the target can grow between scans
	SavedPercent float64

	ItemsAttempted int
	ItemsSucceeded int
	ItemsSkipped   int
	BytesFreed     int64

	ProcsKilled      int
	ProcsUnstoppable int

	Duration time.Duration
	DryRun   bool
}

// Compute derives the report. SavedPercent is defined as zero when the
// baseline is zero; SavedBytes is never clamped.
func Compute(before, after scan.Snapshot, batches ...purge.Batch) CleanupReport {
	r := CleanupReport{
		Root:        before.Root,
		BeforeBytes: before.TotalBytes,
		AfterBytes:  after.TotalBytes,
		SavedBytes:  before.TotalBytes - after.TotalBytes,
	}
	if before.TotalBytes > 0 {
		r.SavedPercent = float64(r.SavedBytes) / float64(before.TotalBytes) * 100
	}
	for _, b := range batches {
		r.ItemsAttempted += b.Attempted
		r.ItemsSucceeded += b.Succeeded
		r.ItemsSkipped += b.Skipped
		r.BytesFreed += b.BytesFreed
	}
	return r
}

// Render formats the summary block for the terminal.
func (r CleanupReport) Render() string {
	label := lipgloss.NewStyle().Foreground(ui.ColorTextDim).Width(14)
	value := lipgloss.NewStyle().Foreground(ui.ColorText)

	savedStyle := ui.StyleSuccess
	if r.SavedBytes < 0 {
		savedStyle = ui.StyleWarning
	}

	title := "Cleanup complete"
	if r.DryRun {
		title = "Cleanup preview (dry run)"
	}

	var b strings.Builder
	b.WriteString(ui.StyleTitle.Render(ui.IconDiamond + " " + title))
	b.WriteString("\n")
	b.WriteString(ui.StyleDim.Render(r.Root))
	b.WriteString("\n\n")

	row := func(name, val string) {
		b.WriteString(label.Render(name))
		b.WriteString(value.Render(val))
		b.WriteString("\n")
	}

	row("Before", ui.FormatSize(r.BeforeBytes))
	row("After", ui.FormatSize(r.AfterBytes))
	b.WriteString(label.Render("Saved"))
	b.WriteString(savedStyle.Render(fmt.Sprintf("%s (%s)",
		ui.FormatSize(r.SavedBytes), ui.FormatPercent(r.SavedPercent))))
	b.WriteString("\n")
	row("Items", fmt.Sprintf("%d removed / %d attempted, %d absent",
		r.ItemsSucceeded, r.ItemsAttempted, r.ItemsSkipped))
	if r.ProcsKilled > 0 || r.ProcsUnstoppable > 0 {
		procLine := fmt.Sprintf("%d stopped", r.ProcsKilled)
		if r.ProcsUnstoppable > 0 {
			procLine += fmt.Sprintf(", %d refused", r.ProcsUnstoppable)
		}
		row("Processes", procLine)
	}
	row("Took", r.Duration.Round(10*time.Millisecond).String())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(0, 2).
		Render(b.String())
}
