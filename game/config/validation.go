package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wricardo/mars-rover/game/engine"
)

// ValidationResult captures the outcome of validating a single world file.
// Errors make the world unusable; Notes are informational and Warnings flag
// layouts that load fine but probably are not what the author meant.
type ValidationResult struct {
	File     string              `json:"file"`
	Valid    bool                `json:"valid"`
	Errors   []string            `json:"errors,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`
	Notes    []string            `json:"notes,omitempty"`
	Report   *engine.WorldReport `json:"report,omitempty"`
}

// ValidateWorlds validates the named worlds, or every world file in the
// directory when no names are given. Unlike LoadWorld it bypasses the cache
// so edits on disk are always seen.
func (m *Manager) ValidateWorlds(names ...string) ([]ValidationResult, error) {
	if len(names) == 0 {
		files, err := m.worldFiles()
		if err != nil {
			return nil, err
		}
		names = files
	}

	results := make([]ValidationResult, 0, len(names))
	for _, name := range names {
		m.mu.RLock()
		path, err := m.resolve(name)
		m.mu.RUnlock()
		if err != nil {
			results = append(results, ValidationResult{
				File:   name,
				Errors: []string{err.Error()},
			})
			continue
		}
		results = append(results, ValidateWorldFile(path))
	}
	return results, nil
}

// ValidateWorldFile loads and validates a single world file and, when it is
// valid, attaches the layout analysis.
func ValidateWorldFile(path string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	world, err := engine.DecodeWorldConfig(data, filepath.Ext(path))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if err := engine.ValidateWorldConfig(world); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	report := engine.AnalyzeWorld(world)
	result.Report = &report

	if len(report.OutOfBounds) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d obstacles lie outside the boundary: %v", len(report.OutOfBounds), report.OutOfBounds))
	}
	if len(report.EdgeObstacles) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d edge obstacles can be entered by wrapping: %v", len(report.EdgeObstacles), report.EdgeObstacles))
	}
	if report.StartBoxedIn {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Start %s is boxed in by obstacles", world.Start))
	}

	result.Notes = append(result.Notes, fmt.Sprintf("Name: %s", world.Name))
	result.Notes = append(result.Notes, fmt.Sprintf("Grid: %dx%d (boundary %d)", 2*world.Boundary+1, 2*world.Boundary+1, world.Boundary))
	result.Notes = append(result.Notes, fmt.Sprintf("Start: %s facing %s", world.Start, world.Facing.Name()))
	result.Notes = append(result.Notes, fmt.Sprintf("Obstacles: %d (density %.1f%%)", report.ObstacleCount, report.Density*100))
	if report.ReachabilitySkipped {
		result.Notes = append(result.Notes, "Reachability: skipped for large grid")
	} else {
		result.Notes = append(result.Notes, fmt.Sprintf("Reachability: %d of %d open cells reachable", report.ReachableCells, report.OpenCells))
		if report.ReachableCells < report.OpenCells {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%d open cells cannot be reached from the start", report.OpenCells-report.ReachableCells))
		}
	}

	return result
}
