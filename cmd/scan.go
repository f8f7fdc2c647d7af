package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
	"github.com/lakshaymaurya-felt/cachemole/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Measure disk usage",
	Long:  "Measure recursive usage under the configured root (or a given path) without deleting anything. Needs no elevation.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := config.Default().Root
		if len(args) == 1 {
			root = config.ExpandPath(args[0])
		}
		os.Exit(runScan(root))
	},
}

func runScan(root string) int {
	snap, err := scan.NewScanner(0).Scan(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.StyleError.Render(err.Error()))
		if errors.Is(err, scan.ErrRootNotFound) {
			return exitNoRoot
		}
		return exitErr
	}

	fmt.Println(ui.StyleTitle.Render(ui.IconDiamond + " Disk usage"))
	fmt.Println(ui.StyleDim.Render("  " + core.OSDescription()))
	fmt.Printf("  %s    %s\n\n", snap.Root, ui.FormatSize(snap.TotalBytes))

	// Largest immediate children first.
	type row struct {
		name string
		size int64
	}
	rows := make([]row, 0, len(snap.PerFolder))
	for name, size := range snap.PerFolder {
		rows = append(rows, row{name, size})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].size > rows[j].size })

	nameStyle := lipgloss.NewStyle().Foreground(ui.ColorText).Width(40)
	for _, r := range rows {
		pct := 0.0
		if snap.TotalBytes > 0 {
			pct = float64(r.size) / float64(snap.TotalBytes) * 100
		}
		fmt.Printf("  %s %10s  %s\n",
			nameStyle.Render(r.name),
			ui.FormatSize(r.size),
			ui.StyleDim.Render(ui.FormatPercent(pct)))
	}

	if usage, err := disk.Usage(snap.Root); err == nil {
		fmt.Printf("\n  %s\n", ui.StyleDim.Render(fmt.Sprintf(
			"volume: %s free of %s (%.1f%% used)",
			ui.FormatSize(int64(usage.Free)),
			ui.FormatSize(int64(usage.Total)),
			usage.UsedPercent)))
	}

	if debug {
		for _, w := range snap.Warnings {
			fmt.Println(ui.StyleDim.Render("  " + ui.IconDot + " " + w))
		}
	}

	return exitOK
}
