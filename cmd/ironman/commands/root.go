package commands

import (
	"context"
	"fmt"
	"os"

	"ironman-results/lib/config"
	"ironman-results/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose *bool
var configPath *string

// cfg is loaded before any subcommand runs.
var cfg config.Config

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output.")
	configPath = rootCmd.PersistentFlags().String("config", "", "Path to the config file, by default the nearest ironman.json5 is used.")
}

var rootCmd = &cobra.Command{
	Use:   "ironman",
	Short: "ironman is a CLI for scraping IRONMAN results and computing world championship qualifiers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*verbose)

		var err error
		if *configPath != "" {
			cfg, err = config.LoadFile(*configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
