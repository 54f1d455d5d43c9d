package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sweep/internal/collision"
	"github.com/vovakirdan/sweep/internal/core"
	"github.com/vovakirdan/sweep/internal/scenario"
)

var (
	flagA        string
	flagAPrev    string
	flagB        string
	flagBPrev    string
	flagEllipseA bool
	flagEllipseB bool
	flagDT       float64
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate one pair of boxes",
	Long: `Evaluate a single pair of bodies across one frame. Boxes are given as
x,y,w,h. A missing --a-prev or --b-prev means that body did not move.

Examples:
  sweep check --a-prev 0,0,10,10 --a 100,0,10,10 --b 50,0,10,10
  sweep check --a-prev 0,0,10,10 --a 100,0,10,10 --b 50,0,10,10 --ellipse-b --dt 0.5`,
	Args: cobra.NoArgs,
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&flagA, "a", "", "Current box of body a (x,y,w,h)")
	checkCmd.Flags().StringVar(&flagAPrev, "a-prev", "", "Previous box of body a (defaults to --a)")
	checkCmd.Flags().StringVar(&flagB, "b", "", "Current box of body b (x,y,w,h)")
	checkCmd.Flags().StringVar(&flagBPrev, "b-prev", "", "Previous box of body b (defaults to --b)")
	checkCmd.Flags().BoolVar(&flagEllipseA, "ellipse-a", false, "Treat body a as the ellipse inscribed in its box")
	checkCmd.Flags().BoolVar(&flagEllipseB, "ellipse-b", false, "Treat body b as the ellipse inscribed in its box")
	checkCmd.Flags().Float64Var(&flagDT, "dt", 0, "Frame duration (0 uses engine.default_frame_duration)")

	checkCmd.MarkFlagRequired("a")
	checkCmd.MarkFlagRequired("b")
}

// parseBox parses "x,y,w,h".
func parseBox(s string) (core.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return core.Rect{}, fmt.Errorf("box %q: expected x,y,w,h", s)
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Rect{}, fmt.Errorf("box %q: %w", s, err)
		}
		v[i] = f
	}
	if v[2] < 0 || v[3] < 0 {
		return core.Rect{}, fmt.Errorf("box %q: negative size", s)
	}
	return core.NewRect(v[0], v[1], v[2], v[3]), nil
}

// parseBody builds a body from its current box and an optional previous one.
func parseBody(id, current, prev string, ellipse bool) (now, before core.Body, err error) {
	cur, err := parseBox(current)
	if err != nil {
		return now, before, fmt.Errorf("--%s: %w", id, err)
	}
	old := cur
	if prev != "" {
		if old, err = parseBox(prev); err != nil {
			return now, before, fmt.Errorf("--%s-prev: %w", id, err)
		}
	}

	shape := core.ShapeRectangle
	if ellipse {
		shape = core.ShapeEllipse
	}
	return core.Body{ID: id, Shape: shape, Rect: cur}, core.Body{ID: id, Shape: shape, Rect: old}, nil
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg, logger := setup()

	a, aPrev, err := parseBody("a", flagA, flagAPrev, flagEllipseA)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	b, bPrev, err := parseBody("b", flagB, flagBPrev, flagEllipseB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	finder := newFinder(cfg, logger)
	store := finder.Store()
	store.Add(aPrev)
	store.Add(bPrev)
	store.EndFrame(flagDT)

	fr := finder.Frame(flagDT)
	printCheck(fr, a, b)
}

func printCheck(fr *collision.Frame, a, b core.Body) {
	d := fr.CollisionData(a, b)
	known := collision.KnownCollision(d.IsCollision)

	fmt.Printf("a  %-9s %s\n", a.Shape, formatBox(a.Rect))
	fmt.Printf("b  %-9s %s\n", b.Shape, formatBox(b.Rect))
	fmt.Printf("dt %g\n", fr.Duration())
	fmt.Println()

	if !d.IsCollision {
		fmt.Println("No collision.")
		return
	}

	aXY, bXY := fr.ObjectsXY(a, b)
	fmt.Printf("collision       yes (moving: %t)\n", d.IsMovingCollision)
	fmt.Printf("time            %.6f\n", d.Time)
	fmt.Printf("contact         (%.4f, %.4f)\n", d.ContactPoint.X, d.ContactPoint.Y)
	fmt.Printf("a at contact    (%.4f, %.4f)\n", aXY.X, aXY.Y)
	fmt.Printf("b at contact    (%.4f, %.4f)\n", bXY.X, bXY.Y)
	fmt.Printf("moving right    %t\n", d.IsMovingRightCollision)
	fmt.Printf("moving left     %t\n", d.IsMovingLeftCollision)
	r := scenario.Result{
		Left:   fr.IsLeftCollision(a, b, known),
		Right:  fr.IsRightCollision(a, b, known),
		Top:    fr.IsTopCollision(a, b, known),
		Bottom: fr.IsBottomCollision(a, b, known),
	}
	side := sides(r)
	if side == "" {
		side = " none"
	}
	fmt.Printf("sides          %s\n", side)
}

func formatBox(r core.Rect) string {
	return fmt.Sprintf("x=%g y=%g w=%g h=%g", r.X, r.Y, r.W, r.H)
}
