// Package ui holds the shared terminal styling vocabulary: color tokens,
// icons, and size formatting used by every command's output.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

var (
	ColorPrimary = lipgloss.Color("#7AA2F7") // blue, interactive highlights
	ColorCoral   = lipgloss.Color("#FF7A85") // coral, scanner identity
	ColorSuccess = lipgloss.Color("#9ECE6A")
	ColorWarning = lipgloss.Color("#E0AF68")
	ColorError   = lipgloss.Color("#F7768E")
	ColorText    = lipgloss.Color("#C0CAF5")
	ColorTextDim = lipgloss.Color("#565F89")
	ColorMuted   = lipgloss.Color("#414868")
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconDiamond = "◆"
	IconChevron = "›"
	IconCheck   = "✓"
	IconCross   = "✗"
	IconDot     = "·"
)

// ─── Common styles ───────────────────────────────────────────────────────────

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	StyleDim     = lipgloss.NewStyle().Foreground(ColorTextDim)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
)

// ─── Size formatting ─────────────────────────────────────────────────────────

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
	tib = 1024 * gib
)

// FormatSize renders a byte count in binary units. Negative counts keep
// their sign — savings can go negative when the target is being written
// to between measurements.
func FormatSize(bytes int64) string {
	neg := ""
	if bytes < 0 {
		neg = "-"
		bytes = -bytes
	}

	switch {
	case bytes >= tib:
		return fmt.Sprintf("%s%.2f TB", neg, float64(bytes)/tib)
	case bytes >= gib:
		return fmt.Sprintf("%s%.2f GB", neg, float64(bytes)/gib)
	case bytes >= mib:
		return fmt.Sprintf("%s%.1f MB", neg, float64(bytes)/mib)
	case bytes >= kib:
		return fmt.Sprintf("%s%.1f KB", neg, float64(bytes)/kib)
	default:
		return fmt.Sprintf("%s%d B", neg, bytes)
	}
}

// FormatPercent renders a percentage with two decimals, clamping tiny
// float noise at the zero boundary.
func FormatPercent(p float64) string {
	if p > -0.005 && p < 0.005 {
		p = 0
	}
	return fmt.Sprintf("%.2f%%", p)
}
