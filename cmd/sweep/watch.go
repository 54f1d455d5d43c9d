package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sweep/internal/collision"
	"github.com/vovakirdan/sweep/internal/config"
	"github.com/vovakirdan/sweep/internal/platform/tui"
	"github.com/vovakirdan/sweep/internal/scenario"
	"github.com/vovakirdan/sweep/internal/storage"
)

var flagFPS int

var watchCmd = &cobra.Command{
	Use:   "watch [id|file.yaml]",
	Short: "Step through a scenario frame by frame",
	Long: `Evaluate a scenario and open it in the terminal viewer. Without an
argument a scenario picker is shown first.

Controls:
  Left/Right - Previous/next frame
  Space      - Play/pause
  g/G        - First/last frame
  Esc/B      - Back
  Q/Ctrl+C   - Quit

Examples:
  sweep watch
  sweep watch orbit
  sweep watch ./my-scenario.yaml --fps 10`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&flagFPS, "fps", 0, "Playback rate in frames per second (0 uses viewer.fps)")
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg, logger := setup()

	// The viewer owns the terminal; only warnings reach stderr.
	if cfg.Log.Level == "debug" || cfg.Log.Level == "info" {
		logger.SetLevel(log.WarnLevel)
	}

	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.Viewer.Width = w
		cfg.Viewer.Height = h
	}
	if flagFPS > 0 {
		cfg.Viewer.FPS = flagFPS
	}

	if len(args) == 1 {
		sc, err := loadScenario(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if _, err := watchScenario(sc, cfg.Viewer, newFinder(cfg, logger)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	// Menu loop: picker -> viewer or history -> picker.
	for {
		result, err := tui.RunMenu(cfg.Viewer.Width, cfg.Viewer.Height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg.Viewer.Width, cfg.Viewer.Height = result.Width, result.Height

		switch {
		case result.Quit:
			return

		case result.WantsRuns:
			goBack, err := tui.RunRuns(store, cfg.Viewer.Width, cfg.Viewer.Height)
			if err != nil || !goBack {
				return
			}

		default:
			sc, err := loadScenario(result.ScenarioID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			finder := newFinder(cfg, logger)
			res, err := watchScenario(sc, cfg.Viewer, finder)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			if store != nil {
				if _, err := store.SaveReport(res.report); err != nil {
					logger.Warn("could not save run", "scenario", sc.ID, "error", err)
				}
			}
			if !res.goBack {
				return
			}
		}
	}
}

type watched struct {
	report *scenario.Report
	goBack bool
}

// watchScenario evaluates sc and shows it in the viewer.
func watchScenario(sc *scenario.Scenario, cfg config.ViewerConfig, finder *collision.Finder) (watched, error) {
	scene, err := tui.BuildScene(context.Background(), sc, finder)
	if err != nil {
		return watched{}, err
	}
	goBack, err := tui.RunViewer(scene, cfg)
	return watched{report: scene.Report, goBack: goBack}, err
}
