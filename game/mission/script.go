package mission

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Script is a parsed mission: setup statements followed by command runs
type Script struct {
	Statements []*Statement `parser:"@@*"`
}

// Statement is one line of a mission script
type Statement struct {
	Pos lexer.Position

	World    *string     `parser:"  'world' @String"`
	Boundary *int        `parser:"| 'boundary' @('-'? Int)"`
	Start    *Start      `parser:"| @@"`
	Obstacle *Coordinate `parser:"| 'obstacle' @@"`
	Run      *string     `parser:"| 'run' @String"`
}

// Start places the rover: start X Y facing D
type Start struct {
	At     *Coordinate `parser:"'start' @@"`
	Facing string      `parser:"'facing' @Ident"`
}

// Coordinate is an X Y pair; either may be negative
type Coordinate struct {
	X int `parser:"@('-'? Int)"`
	Y int `parser:"@('-'? Int)"`
}

var parser = participle.MustBuild[Script](participle.Unquote("String"))

// Parse parses mission source. name is used in error positions.
func Parse(name, source string) (*Script, error) {
	script, err := parser.ParseString(name, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mission: %w", err)
	}
	return script, nil
}

// ParseFile reads and parses a mission file
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission: %w", err)
	}
	return Parse(path, string(data))
}

// Runs returns the run statements in order
func (s *Script) Runs() []*Statement {
	var runs []*Statement
	for _, stmt := range s.Statements {
		if stmt.Run != nil {
			runs = append(runs, stmt)
		}
	}
	return runs
}

// kind names the statement for error messages
func (st *Statement) kind() string {
	switch {
	case st.World != nil:
		return "world"
	case st.Boundary != nil:
		return "boundary"
	case st.Start != nil:
		return "start"
	case st.Obstacle != nil:
		return "obstacle"
	case st.Run != nil:
		return "run"
	default:
		return "unknown"
	}
}
