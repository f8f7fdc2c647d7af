package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/cachemole/internal/engine"
	"github.com/lakshaymaurya-felt/cachemole/internal/ui"
)

func (m CleanModel) View() string {
	if m.quitting && m.rep == nil {
		return ui.StyleDim.Render("  display detached, cleanup is finishing...") + "\n"
	}
	if m.rep != nil {
		return m.renderDone()
	}

	w := m.width
	if w < 44 {
		w = 44
	}

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")
	s.WriteString(m.renderPhases())
	s.WriteString("\n  ")
	s.WriteString(m.bar.View())
	s.WriteString("\n")
	s.WriteString(m.renderRecent())
	s.WriteString("\n")
	s.WriteString(ui.StyleDim.Render("  q to detach the display (cleanup keeps running)"))
	s.WriteString("\n")
	return s.String()
}

func (m CleanModel) renderHeader(w int) string {
	title := ui.StyleTitle.Render("  " + ui.IconDiamond + " Cache cleanup")
	if m.dryRun {
		title += ui.StyleWarning.Render("  (dry run)")
	}
	pathLine := ui.StyleDim.Render("  " + m.root)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Width(w - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, pathLine))
}

// renderPhases draws the checklist: done phases get a check, the active
// one the spinner, pending ones a dot.
func (m CleanModel) renderPhases() string {
	var s strings.Builder
	active := -1
	for i, p := range visiblePhases {
		if p == m.phase {
			active = i
		}
	}

	if active < 0 && m.phase == engine.PhaseReported {
		active = len(visiblePhases)
	}

	for i, p := range visiblePhases {
		var marker, label string
		switch {
		case active >= 0 && i < active:
			marker = ui.StyleSuccess.Render(ui.IconCheck)
			label = ui.StyleDim.Render(p.String())
		case i == active:
			marker = m.spin.View()
			label = lipgloss.NewStyle().Foreground(ui.ColorText).Render(p.String())
		default:
			marker = ui.StyleDim.Render(ui.IconDot)
			label = ui.StyleDim.Render(p.String())
		}

		s.WriteString(fmt.Sprintf("  %s %s", marker, label))
		if p == engine.PhaseTerminate && m.procs != nil {
			detail := fmt.Sprintf("  %d stopped", m.procs.Killed)
			if n := len(m.procs.Failed); n > 0 {
				detail += fmt.Sprintf(", %d refused", n)
			}
			s.WriteString(ui.StyleDim.Render(detail))
		}
		s.WriteString("\n")
	}
	return s.String()
}

// renderRecent lists the last few purge items with their outcome.
func (m CleanModel) renderRecent() string {
	if len(m.recent) == 0 {
		return ""
	}
	var s strings.Builder
	for _, r := range m.recent {
		name := filepath.Base(r.Path)
		if r.OK() {
			s.WriteString(fmt.Sprintf("    %s %s  %s\n",
				ui.StyleSuccess.Render(ui.IconCheck),
				ui.StyleDim.Render(name),
				ui.StyleDim.Render(ui.FormatSize(r.BytesFreed))))
		} else {
			s.WriteString(fmt.Sprintf("    %s %s  %s\n",
				ui.StyleError.Render(ui.IconCross),
				ui.StyleDim.Render(name),
				ui.StyleError.Render(shortErr(r.Err))))
		}
	}
	return s.String()
}

func (m CleanModel) renderDone() string {
	var s strings.Builder
	s.WriteString(m.rep.Render())
	s.WriteString("\n")
	if m.warnings > 0 {
		s.WriteString(ui.StyleDim.Render(
			fmt.Sprintf("%d entries were unreadable and counted as zero\n", m.warnings)))
	}
	return s.String()
}

func shortErr(err error) string {
	msg := err.Error()
	if len(msg) > 60 {
		msg = msg[:57] + "..."
	}
	return msg
}
