package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"github.com/lakshaymaurya-felt/cachemole/internal/engine"
	"github.com/lakshaymaurya-felt/cachemole/internal/proc"
	"github.com/lakshaymaurya-felt/cachemole/internal/purge"
	"github.com/lakshaymaurya-felt/cachemole/internal/report"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
	"github.com/lakshaymaurya-felt/cachemole/internal/tui"
	"github.com/lakshaymaurya-felt/cachemole/internal/ui"
)

// Exit codes are part of the CLI contract: scripts key off them.
const (
	exitOK          = 0
	exitNoElevation = 1
	exitNoRoot      = 2
	exitErr         = 3
)

var (
	cleanRoot       string
	cleanConfigFile string
	cleanYes        bool
	cleanDryRun     bool
	cleanNoKill     bool
	cleanGrace      int
	cleanPlain      bool
	cleanRestart    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long:  "Stop lock-holding processes, purge the cache allow-list and stale temp profiles, and report before/after usage.",
}

func init() {
	// Assigned here rather than in the composite literal: runClean
	// reads cleanCmd's flags, which would otherwise be an
	// initialization cycle.
	cleanCmd.Run = func(cmd *cobra.Command, args []string) {
		os.Exit(runClean())
	}
	cleanCmd.Flags().StringVar(&cleanRoot, "root", "", "Browser profile root (default: platform Chrome profile)")
	cleanCmd.Flags().StringVar(&cleanConfigFile, "config", "", "JSON config file overriding the defaults")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Skip the confirmation gate")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Preview the cleanup without deleting")
	cleanCmd.Flags().BoolVar(&cleanNoKill, "no-kill", false, "Do not terminate any processes")
	cleanCmd.Flags().IntVar(&cleanGrace, "grace", 0, "Seconds to wait after termination (default from config)")
	cleanCmd.Flags().BoolVar(&cleanPlain, "plain", false, "Line-based output instead of the interactive view")
	cleanCmd.Flags().BoolVar(&cleanRestart, "restart", false, "Restart the system after a successful run")
}

func runClean() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.StyleError.Render("config: "+err.Error()))
		if errors.Is(err, config.ErrNoRoot) {
			return exitNoRoot
		}
		return exitErr
	}

	// Nothing is touched without elevation: locked system temp and
	// service-owned cache files need it, and a half-privileged run
	// would silently skip them.
	if !core.IsElevated() {
		fmt.Fprintln(os.Stderr, ui.StyleError.Render("cm clean requires elevated privileges (run as administrator/root)"))
		return exitNoElevation
	}

	if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "%s\n", ui.StyleError.Render("target root does not exist: "+cfg.Root))
		return exitNoRoot
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())

	if !cleanYes && interactive {
		if !confirmPlan(cfg) {
			fmt.Println("Aborted, nothing was deleted.")
			return exitOK
		}
	}

	rep, err := execute(cfg, interactive && !cleanPlain)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.StyleError.Render(err.Error()))
		if errors.Is(err, scan.ErrRootNotFound) {
			return exitNoRoot
		}
		return exitErr
	}

	if cleanPlain || !interactive {
		fmt.Println(rep.Render())
	}

	maybeRestart(interactive, rep)
	return exitOK
}

// loadConfig builds the effective configuration: defaults, then the
// config file, then flags.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if cleanConfigFile != "" {
		var err error
		cfg, err = config.Load(cleanConfigFile)
		if err != nil {
			return cfg, err
		}
	}
	if cleanRoot != "" {
		cfg.Root = config.ExpandPath(cleanRoot)
	}
	if cleanCmd.Flags().Changed("grace") {
		cfg.GraceSeconds = cleanGrace
	}
	return cfg, cfg.Validate()
}

// confirmPlan shows what the run will do and waits for Enter.
func confirmPlan(cfg config.Config) bool {
	fmt.Println(ui.StyleTitle.Render(ui.IconDiamond + " Cleanup plan"))
	fmt.Printf("  root       %s\n", cfg.Root)
	fmt.Printf("  caches     %s\n", strings.Join(cfg.CachePaths, ", "))
	fmt.Printf("  temp roots %s\n", strings.Join(cfg.TempRoots, ", "))
	if !cleanNoKill && !cleanDryRun {
		fmt.Printf("  stopping   %s\n", strings.Join(cfg.Processes, ", "))
	}
	if cleanDryRun {
		fmt.Println(ui.StyleWarning.Render("  dry run: nothing will be deleted"))
	}
	fmt.Print("\nPress Enter to continue, Ctrl+C to abort... ")
	_, err := bufio.NewReader(os.Stdin).ReadString('\n')
	return err == nil
}

// execute runs the engine, interactively or with plain line output.
func execute(cfg config.Config, useTUI bool) (report.CleanupReport, error) {
	opts := engine.Options{
		Config: cfg,
		DryRun: cleanDryRun,
		NoKill: cleanNoKill,
	}

	if useTUI {
		events := make(chan tea.Msg, 64)
		opts.Callbacks = tui.Callbacks(events)
		eng := engine.New(opts)
		return tui.Run(cfg.Root, cleanDryRun, events, tui.RunEngine(eng))
	}

	opts.Callbacks = plainCallbacks()
	eng := engine.New(opts)
	return eng.Run(context.Background())
}

// plainCallbacks prints one line per phase and per item.
func plainCallbacks() engine.Callbacks {
	return engine.Callbacks{
		OnPhase: func(p engine.Phase) {
			fmt.Printf("%s %s\n", ui.IconChevron, p)
		},
		OnItem: func(r purge.Result) {
			if r.OK() {
				fmt.Printf("  %s %s (%s)\n", ui.IconCheck, r.Path, ui.FormatSize(r.BytesFreed))
				return
			}
			fmt.Printf("  %s %s: %v\n", ui.IconCross, r.Path, r.Err)
		},
		OnProcesses: func(r proc.Result) {
			fmt.Printf("  stopped %d of %d matching processes\n", r.Killed, r.Matched)
			for _, f := range r.Failed {
				fmt.Printf("  %s %s (pid %d): %v\n", ui.IconCross, f.Name, f.Pid, f.Err)
			}
		},
		OnWarning: func(w string) {
			if debug {
				fmt.Printf("  %s %s\n", ui.IconDot, w)
			}
		},
	}
}

// maybeRestart offers a system restart after a real cleanup. Anything
// but an explicit "y" means no action.
func maybeRestart(interactive bool, rep report.CleanupReport) {
	if rep.DryRun {
		return
	}
	if cleanRestart {
		restartNow()
		return
	}
	if !interactive {
		return
	}

	fmt.Print("Restart now to release remaining locks? [y/N] ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return
	}
	if strings.EqualFold(strings.TrimSpace(answer), "y") {
		restartNow()
	}
}

func restartNow() {
	if err := core.RequestRestart(); err != nil {
		fmt.Fprintln(os.Stderr, ui.StyleWarning.Render("restart request failed: "+err.Error()))
	}
}
