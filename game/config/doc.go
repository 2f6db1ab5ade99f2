// Package config provides world management for the Mars rover simulator.
//
// The config package handles:
//   - Loading worlds from JSON and YAML files
//   - World validation and layout analysis
//   - Default world management
//   - World discovery and listing
//
// World Format:
//
// Worlds are stored as .json, .yaml or .yml files in the configs directory.
// Each world defines a boundary, a start cell and heading, and a list of
// obstacle cells:
//
//	name: crater
//	description: Crater rim with a gap to the north
//	boundary: 5
//	start: {x: 0, y: -2}
//	facing: north
//	obstacles:
//	  - {x: -1, y: 1}
//	  - {x: 1, y: 1}
//
// A world is referenced by its file name without extension. When several
// extensions exist for the same name, .json wins over .yaml and .yml.
//
// Usage:
//
//	manager, err := config.NewManager("configs", "default")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	world, err := manager.LoadWorld("crater")
//	defaultWorld := manager.GetDefault()
//	worlds, err := manager.ListWorlds()
//
// Validation:
//
// ValidateWorlds runs the engine's structural checks on each file and then
// analyzes valid worlds, warning about obstacles outside the boundary, edge
// obstacles that the rover can enter by wrapping, and starts that are boxed
// in. The notes include how many cells are reachable from the start.
package config
