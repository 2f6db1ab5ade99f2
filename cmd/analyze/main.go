// Command analyze prints quick, human-readable heuristics about the world
// files in a config directory: grid size, obstacle density, obstacles the
// rover can never meet, edge obstacles it can enter by wrapping, and how much
// of the grid is reachable from the start.
//
// Usage:
//
//	analyze [CONFIG_DIR]
//
// CONFIG_DIR defaults to "configs".
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/wricardo/mars-rover/game/config"
	"github.com/wricardo/mars-rover/game/engine"
)

// maxListed caps how many positions are printed per warning
const maxListed = 5

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := analyzeDir(os.Stdout, dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// analyzeDir prints a report for every world file in dir
func analyzeDir(w io.Writer, dir string) error {
	manager, err := config.NewManager(dir, "")
	if err != nil {
		return err
	}

	results, err := manager.ValidateWorlds()
	if err != nil {
		return err
	}

	for _, result := range results {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", result.File)
		if !result.Valid {
			for _, e := range result.Errors {
				fmt.Fprintf(w, "❌ %s\n", e)
			}
			continue
		}
		printReport(w, result.Report)
	}
	return nil
}

func printReport(w io.Writer, report *engine.WorldReport) {
	side := 2*report.Boundary + 1
	fmt.Fprintf(w, "Name: %s\n", report.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d (boundary %d)\n", side, side, report.Boundary)
	fmt.Fprintf(w, "Obstacles: %d (density %.1f%%)\n", report.ObstacleCount, report.Density*100)

	if len(report.OutOfBounds) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d obstacles lie outside the boundary and can never be hit\n", len(report.OutOfBounds))
		printPositions(w, "Outside", report.OutOfBounds)
	}

	if len(report.EdgeObstacles) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d edge obstacles can be entered by wrapping from the opposite edge\n", len(report.EdgeObstacles))
		printPositions(w, "Edge", report.EdgeObstacles)
	}

	if report.StartBoxedIn {
		fmt.Fprintf(w, "⚠️  CRITICAL: the start cell is boxed in; only turns will succeed\n")
	} else if len(report.BlockedNeighbours) > 0 {
		fmt.Fprintf(w, "Start has %d blocked neighbours\n", len(report.BlockedNeighbours))
	}

	switch {
	case report.ReachabilitySkipped:
		fmt.Fprintf(w, "Reachability: skipped (%d cells)\n", report.Cells)
	case report.ReachableCells >= report.OpenCells:
		fmt.Fprintf(w, "✅ All %d open cells are reachable from the start\n", report.OpenCells)
	default:
		fmt.Fprintf(w, "⚠️  WARNING: only %d of %d open cells are reachable from the start\n", report.ReachableCells, report.OpenCells)
	}

	if len(report.ReachableObstacles) > 0 {
		fmt.Fprintf(w, "Obstacle cells entered by wrapping: %d\n", len(report.ReachableObstacles))
		printPositions(w, "Entered", report.ReachableObstacles)
	}
}

func printPositions(w io.Writer, label string, positions []engine.Position) {
	for i, p := range positions {
		if i == maxListed {
			fmt.Fprintf(w, "   ... and %d more\n", len(positions)-maxListed)
			break
		}
		fmt.Fprintf(w, "   %s: %s\n", label, p)
	}
}
