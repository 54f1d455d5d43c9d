// sweep drives the continuous collision engine from the terminal.
//
// Usage:
//
//	sweep list                 - List built-in scenarios
//	sweep run <id|file.yaml>   - Run a scenario and check its expectations
//	sweep check --a ... --b ...- Evaluate a single pair of boxes
//	sweep watch <id|file.yaml> - Step through a scenario in the viewer
//	sweep runs [id]            - Show recorded runs
//	sweep serve                - Serve the viewer over SSH
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.sweep, ./configs, embedded)
//	--log-level <level> - debug, info, warn or error
//	--preset <name>     - Tolerance preset: default, strict, loose
//	--db <path>         - Run database path
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sweep/internal/collision"
	"github.com/vovakirdan/sweep/internal/config"
	"github.com/vovakirdan/sweep/internal/history"
	"github.com/vovakirdan/sweep/internal/registry"
	"github.com/vovakirdan/sweep/internal/scenario"

	// Register built-in scenarios
	_ "github.com/vovakirdan/sweep/internal/scenario/builtin"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagPreset   string
	flagDBPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Swept collision detection for boxes and ellipses",
	Long: `sweep runs the continuous collision engine against scripted scenarios.

Each scenario moves a set of bodies frame by frame. Between frames the engine
sweeps every body from its previous position to its current one, so fast movers
cannot tunnel through thin walls.

Available commands:
  list     - Show built-in scenarios
  run      - Run a scenario and check its expectations
  check    - Evaluate one pair of boxes
  watch    - Step through a scenario frame by frame
  runs     - Show recorded runs
  serve    - Serve the viewer over SSH

Examples:
  sweep list
  sweep run tunnel
  sweep run ./my-scenario.yaml --save
  sweep check --a-prev 0,0,10,10 --a 100,0,10,10 --b 50,0,10,10
  sweep watch orbit`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Tolerance preset (default, strict, loose)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run database (overrides config)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the configuration and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagPreset != "" {
		preset, err := config.ParsePreset(flagPreset)
		if err != nil {
			return cfg, err
		}
		config.ApplyPreset(&cfg.Engine, preset)
	}
	if flagLogLevel != "" {
		cfg.Log.Level = strings.ToLower(flagLogLevel)
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sweep",
	})
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// newFinder builds a finder over a fresh history sized by the engine config.
func newFinder(cfg config.Config, logger *log.Logger) *collision.Finder {
	store := history.NewStore()
	store.SetDepth(cfg.Engine.HistoryDepth)
	return collision.NewFinder(store, collision.WithConfig(cfg.Engine), collision.WithLogger(logger))
}

// loadScenario resolves arg as a registered scenario ID or a YAML file path.
func loadScenario(arg string) (*scenario.Scenario, error) {
	if registry.Exists(arg) {
		return registry.Create(arg)
	}
	if scenario.IsScenarioFile(arg) {
		return scenario.LoadFile(arg)
	}
	return nil, fmt.Errorf("%w %q (run 'sweep list' to see built-in scenarios)", registry.ErrUnknown, arg)
}

// setup loads config and logger, exiting on error.
func setup() (config.Config, *log.Logger) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg, newLogger(cfg)
}
