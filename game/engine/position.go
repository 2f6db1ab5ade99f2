package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Position represents x,y coordinates on the grid. North is +y, East is +x.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// North returns the cell one step north
func (p Position) North() Position {
	return Position{X: p.X, Y: p.Y + 1}
}

// South returns the cell one step south
func (p Position) South() Position {
	return Position{X: p.X, Y: p.Y - 1}
}

// East returns the cell one step east
func (p Position) East() Position {
	return Position{X: p.X + 1, Y: p.Y}
}

// West returns the cell one step west
func (p Position) West() Position {
	return Position{X: p.X - 1, Y: p.Y}
}

// Stepped returns the neighbouring cell in direction d. The receiver is not modified.
func (p Position) Stepped(d Direction) Position {
	switch d {
	case North:
		return p.North()
	case South:
		return p.South()
	case East:
		return p.East()
	case West:
		return p.West()
	}
	panic(fmt.Sprintf("engine: invalid direction %d", int(d)))
}

// String formats the position as (x,y)
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ParsePosition parses "x,y", optionally wrapped in parentheses
func ParsePosition(s string) (Position, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")

	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return Position{}, fmt.Errorf("invalid position %q: expected x,y", s)
	}

	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Position{}, fmt.Errorf("invalid position %q: bad x: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Position{}, fmt.Errorf("invalid position %q: bad y: %w", s, err)
	}

	return Position{X: x, Y: y}, nil
}
