// Package engine provides the core motion logic for the Mars rover simulator.
//
// The engine package implements:
//   - A four-valued cyclic Direction with left/right turn tables
//   - Integer grid Positions with pure unit-step translation
//   - The Radar: boundary, position, heading and a fixed obstacle set
//   - Wrap-around at the grid edges and obstacle collision checks
//   - The Rover command interpreter with abort-on-obstacle semantics
//   - World configuration loading, validation and analysis
//
// Core Types:
//
// Radar owns the rover's state and exposes turn and move operations. Rover
// wraps exactly one Radar and feeds it single-character commands. WorldConfig
// describes a starting scenario and is loaded from JSON or YAML files.
//
// Usage:
//
//	radar := engine.NewRadar(10, engine.Position{}, engine.North, engine.Position{X: 1, Y: 2})
//	rover := engine.NewRover(radar)
//
//	if err := rover.AcceptCommands("rffl"); err != nil {
//		if errors.Is(err, engine.ErrObstacleHit) {
//			log.Printf("stopped at %s facing %s", rover.Position(), rover.Direction())
//		}
//	}
//
// Grid Rules:
//
// The playable area is the square [-B, B] x [-B, B]. A move that leaves the
// square is clamped onto the opposite edge. Obstacles are checked against the
// candidate cell before wrapping, so an obstacle sitting on an edge cell can
// still be entered by wrapping onto it. Commands other than l, r, f and b are
// ignored. The first blocked move stops the sequence and everything executed
// before it stays committed.
package engine
