package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
	"github.com/lakshaymaurya-felt/cachemole/internal/ui"
)

var targetsConfigFile string

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Show what a clean run would touch",
	Long:  "Print the effective configuration: the allow-listed cache paths, standalone purge roots, temp sweep, and process targets.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Default()
		if targetsConfigFile != "" {
			var err error
			cfg, err = config.Load(targetsConfigFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, ui.StyleError.Render(err.Error()))
				os.Exit(exitErr)
			}
		}
		printTargets(cfg)
	},
}

func init() {
	targetsCmd.Flags().StringVar(&targetsConfigFile, "config", "", "JSON config file overriding the defaults")
}

func printTargets(cfg config.Config) {
	section := func(name string) {
		fmt.Println(ui.StyleTitle.Render(ui.IconDiamond + " " + name))
	}
	item := func(s string) {
		fmt.Printf("  %s %s\n", ui.StyleDim.Render(ui.IconChevron), s)
	}

	section("Root")
	item(cfg.Root)

	section("Cache allow-list (relative)")
	for _, p := range cfg.CachePaths {
		item(p)
	}

	section("Driver cache roots")
	for _, p := range cfg.DriverRoots {
		item(p)
	}

	section("Temp sweep")
	for _, p := range cfg.TempRoots {
		item(p)
	}
	fmt.Printf("  %s prefixes: %v\n", ui.StyleDim.Render(ui.IconDot), cfg.TempPrefixes)

	section("Processes stopped before purge")
	for _, p := range cfg.Processes {
		item(p)
	}
	fmt.Printf("  %s grace period: %s\n", ui.StyleDim.Render(ui.IconDot), cfg.Grace())
}
