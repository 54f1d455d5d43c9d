package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sweep/internal/platform/tui"
	"github.com/vovakirdan/sweep/internal/registry"
	"github.com/vovakirdan/sweep/internal/storage"
)

var (
	flagLimit       int
	flagInteractive bool
	flagClear       bool
	flagEvents      int64
)

var runsCmd = &cobra.Command{
	Use:   "runs [scenario]",
	Short: "Show recorded runs",
	Long: `Display recorded runs, newest first. Runs are recorded by
'sweep run --save' and by the viewer.

Examples:
  sweep runs
  sweep runs tunnel --limit 5
  sweep runs --events 12
  sweep runs -i
  sweep runs tunnel --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Maximum number of runs to show")
	runsCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse runs in a table")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded runs instead of listing them")
	runsCmd.Flags().Int64Var(&flagEvents, "events", 0, "Show the collision events of one run")
}

func runRuns(cmd *cobra.Command, args []string) {
	cfg, _ := setup()

	scenarioID := ""
	if len(args) == 1 {
		scenarioID = args[0]
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagInteractive:
		width, height := cfg.Viewer.Width, cfg.Viewer.Height
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if _, err := tui.RunRuns(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

	case flagClear:
		if err := store.ClearRuns(scenarioID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			return
		}
		if scenarioID == "" {
			fmt.Println("Cleared all runs.")
		} else {
			fmt.Printf("Cleared runs of %s.\n", scenarioID)
		}

	case flagEvents > 0:
		printEvents(store, flagEvents)

	default:
		printRuns(store, scenarioID)
	}
}

func printRuns(store *storage.Store, scenarioID string) {
	runs, err := store.RecentRuns(scenarioID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	title := "Recent runs"
	if scenarioID != "" {
		title = fmt.Sprintf("Recent runs - %s", scenarioID)
		if !registry.Exists(scenarioID) {
			title += " (not a built-in scenario)"
		}
	}
	fmt.Println(title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'sweep run <id> --save' to record one.")
		return
	}

	fmt.Printf("  %-6s  %-12s  %-6s  %6s  %5s  %10s  %s\n", "Run", "Scenario", "Result", "Frames", "Hits", "Elapsed", "Date")
	fmt.Printf("  %-6s  %-12s  %-6s  %6s  %5s  %10s  %s\n", "---", "--------", "------", "------", "----", "-------", "----")
	for _, r := range runs {
		result := "pass"
		if !r.Passed {
			result = "fail"
		}
		fmt.Printf("  #%-5d  %-12s  %-6s  %6d  %5d  %10v  %s\n",
			r.ID, r.ScenarioID, result, r.Frames, r.Collisions, r.Elapsed, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.ScenarioStats()
	if err != nil || len(stats) == 0 {
		return
	}
	fmt.Println()
	for _, info := range registry.List() {
		if st := stats[info.ID]; st != nil && (scenarioID == "" || scenarioID == info.ID) {
			fmt.Printf("  %-12s  %d/%d passed, last %s\n", info.ID, st.Passed, st.Runs, st.LastRun.Format("2006-01-02 15:04"))
		}
	}
}

func printEvents(store *storage.Store, runID int64) {
	run, err := store.RunByID(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		return
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "Error: no run #%d\n", runID)
		return
	}

	events, err := store.RunEvents(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving events: %v\n", err)
		return
	}

	fmt.Printf("Run #%d - %s (%d collisions)\n", run.ID, run.ScenarioID, len(events))
	fmt.Println()
	for _, e := range events {
		kind := "static"
		if e.Moving {
			kind = "moving"
		}
		fmt.Printf("  frame %3d  %s/%s  %s  t=%.4f  contact=(%.2f, %.2f)\n",
			e.Frame, e.A, e.B, kind, e.Time, e.Contact.X, e.Contact.Y)
	}
}
