// Package mission parses and runs rover mission scripts.
//
// A mission is a small line-oriented script. Setup statements describe the
// world and must come before the first run; each run sends one command
// string to the same rover:
//
//	// comment
//	world "crater"          // optional, must be first
//	boundary 5
//	start 0 -2 facing east
//	obstacle 1 1
//	run "ffrff"
//	run "bbl"
//
// Without a world statement the mission starts from the built-in open
// plain. Obstacle statements add to the base world's obstacles.
//
// Execution:
//
// Run applies the setup, validates the resulting world and executes every
// run in order. An obstacle stops the run it occurs in; the commands before
// it stay committed and the next run starts from there. The Report lists
// each run's outcome and the final rover state.
//
// Usage:
//
//	script, err := mission.ParseFile("configs/missions/survey.rover")
//	if err != nil {
//		log.Fatal(err)
//	}
//	report, err := mission.Run(ctx, script, worldManager)
package mission
