package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sweep/internal/scenario"
	"github.com/vovakirdan/sweep/internal/storage"
)

var (
	flagSave    bool
	flagVerbose bool
)

var runCmd = &cobra.Command{
	Use:   "run <id|file.yaml>",
	Short: "Run a scenario and check its expectations",
	Long: `Drive a scenario through the engine frame by frame and check every
expectation it declares. Exits non-zero if any expectation fails.

With --save the run, its collision events and every recorded frame are written
to the run database.

Examples:
  sweep run tunnel
  sweep run ./scenarios/ramp.yaml -v
  sweep run orbit --save --preset strict`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagSave, "save", false, "Record the run in the database")
	runCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print every collision, not just the summary")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, logger := setup()

	sc, err := loadScenario(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []scenario.RunOption{scenario.WithLogger(logger)}

	var store *storage.Store
	if flagSave {
		store, err = storage.Open(cfg.Storage.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, scenario.WithRecorder(store))
	}

	report, err := scenario.Run(ctx, sc, newFinder(cfg, logger), opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error running scenario: %v\n", err)
		os.Exit(1)
	}

	printReport(sc, report)

	if store != nil {
		id, err := store.SaveReport(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
		} else {
			fmt.Printf("Saved as run #%d\n", id)
		}
		store.Close()
	}

	if !report.Passed() {
		stop()
		os.Exit(1)
	}
}

func printReport(sc *scenario.Scenario, report *scenario.Report) {
	fmt.Printf("%s - %s\n", sc.ID, sc.Name)
	fmt.Println()

	for _, r := range report.Results {
		if !r.Data.IsCollision || (!flagVerbose && r.Frame != firstHit(report, r.A, r.B)) {
			continue
		}
		kind := "static"
		if r.Data.IsMovingCollision {
			kind = "moving"
		}
		fmt.Printf("  frame %3d  %s/%s  %s  t=%.4f  contact=(%.2f, %.2f)%s\n",
			r.Frame, r.A, r.B, kind, r.Data.Time, r.Data.ContactPoint.X, r.Data.ContactPoint.Y, sides(r))
	}

	for _, f := range report.Failures {
		fmt.Printf("  FAIL %s\n", f)
	}

	status := "PASS"
	if !report.Passed() {
		status = "FAIL"
	}
	fmt.Println()
	fmt.Printf("%s  %d frames, %d collisions, %d failures in %v\n",
		status, report.Frames, report.Collisions(), len(report.Failures), report.Elapsed)
}

// firstHit returns the first frame a pair collided in, or -1.
func firstHit(report *scenario.Report, a, b string) int {
	for _, r := range report.Results {
		if r.A == a && r.B == b && r.Data.IsCollision {
			return r.Frame
		}
	}
	return -1
}

func sides(r scenario.Result) string {
	s := ""
	if r.Left {
		s += " left"
	}
	if r.Right {
		s += " right"
	}
	if r.Top {
		s += " top"
	}
	if r.Bottom {
		s += " bottom"
	}
	if s == "" {
		return ""
	}
	return " [" + s[1:] + "]"
}
