package mission

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/mars-rover/game/engine"
)

var (
	// ErrSetupAfterRun is returned when a setup statement follows a run
	ErrSetupAfterRun = errors.New("setup statement after run")
	// ErrWorldNotFirst is returned when a world statement is not the first statement
	ErrWorldNotFirst = errors.New("world must be the first statement")
)

// WorldLoader resolves world names used by the world statement
type WorldLoader interface {
	LoadWorld(name string) (*engine.WorldConfig, error)
}

// RunResult is the outcome of one run statement
type RunResult struct {
	Line      int              `json:"line"`
	Commands  string           `json:"commands"`
	OK        bool             `json:"ok"`
	Executed  int              `json:"executed"`
	Position  engine.Position  `json:"position"`
	Direction engine.Direction `json:"direction"`
	Blocked   *engine.Position `json:"blocked,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Report summarizes a mission
type Report struct {
	World *engine.WorldConfig `json:"world"`
	Runs  []RunResult         `json:"runs"`
	Final engine.State        `json:"final"`
}

// Failed returns the number of runs stopped by an obstacle
func (r *Report) Failed() int {
	failed := 0
	for _, run := range r.Runs {
		if !run.OK {
			failed++
		}
	}
	return failed
}

// BuildWorld applies the script's setup statements. The base is the named
// world when the script opens with a world statement, otherwise the
// built-in default. Obstacles are added to the base world's obstacles.
func (s *Script) BuildWorld(loader WorldLoader) (*engine.WorldConfig, error) {
	base := engine.DefaultWorldConfig()
	name := "mission"

	seenRun := false
	for i, stmt := range s.Statements {
		if stmt.Run != nil {
			seenRun = true
			continue
		}
		if seenRun {
			return nil, fmt.Errorf("line %d: %w: %s", stmt.Pos.Line, ErrSetupAfterRun, stmt.kind())
		}

		switch {
		case stmt.World != nil:
			if i != 0 {
				return nil, fmt.Errorf("line %d: %w", stmt.Pos.Line, ErrWorldNotFirst)
			}
			if loader == nil {
				return nil, fmt.Errorf("line %d: no world loader for world %q", stmt.Pos.Line, *stmt.World)
			}
			world, err := loader.LoadWorld(*stmt.World)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", stmt.Pos.Line, err)
			}
			base = copyWorld(world)
			name = base.Name

		case stmt.Boundary != nil:
			base.Boundary = *stmt.Boundary

		case stmt.Start != nil:
			facing, err := engine.ParseDirection(stmt.Start.Facing)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", stmt.Pos.Line, err)
			}
			base.Start = engine.Position{X: stmt.Start.At.X, Y: stmt.Start.At.Y}
			base.Facing = facing

		case stmt.Obstacle != nil:
			base.Obstacles = append(base.Obstacles, engine.Position{X: stmt.Obstacle.X, Y: stmt.Obstacle.Y})
		}
	}

	base.Name = name
	if err := engine.ValidateWorldConfig(base); err != nil {
		return nil, err
	}
	return base, nil
}

// Run builds the mission's world and executes every run statement on one
// rover. An obstacle stops only the run it occurs in; later runs continue
// from where the rover stopped. Errors are returned for setup problems and
// for a cancelled context.
func Run(ctx context.Context, script *Script, loader WorldLoader) (*Report, error) {
	world, err := script.BuildWorld(loader)
	if err != nil {
		return nil, err
	}

	rover, err := engine.NewRoverFromConfig(world)
	if err != nil {
		return nil, err
	}

	report := &Report{World: world}
	for _, stmt := range script.Runs() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		steps, runErr := rover.Trace(*stmt.Run)
		result := RunResult{
			Line:      stmt.Pos.Line,
			Commands:  *stmt.Run,
			OK:        runErr == nil,
			Position:  rover.Position(),
			Direction: rover.Direction(),
		}
		for _, step := range steps {
			if step.OK {
				result.Executed++
			} else {
				result.Blocked = step.Blocked
			}
		}
		if runErr != nil {
			result.Error = runErr.Error()
		}
		report.Runs = append(report.Runs, result)
	}

	report.Final = rover.Radar().Snapshot()
	return report, nil
}

func copyWorld(world *engine.WorldConfig) *engine.WorldConfig {
	c := *world
	c.Obstacles = append([]engine.Position(nil), world.Obstacles...)
	return &c
}
