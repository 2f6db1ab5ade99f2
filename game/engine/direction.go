package engine

import (
	"fmt"
	"strings"
)

// Direction is the rover heading. The zero value is North.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// AllDirections returns the four headings in clockwise order starting at North
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// TurnLeft returns the heading after a 90 degree counter-clockwise turn
func (d Direction) TurnLeft() Direction {
	switch d {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	case East:
		return North
	}
	panic(fmt.Sprintf("engine: invalid direction %d", int(d)))
}

// TurnRight returns the heading after a 90 degree clockwise turn
func (d Direction) TurnRight() Direction {
	switch d {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	case West:
		return North
	}
	panic(fmt.Sprintf("engine: invalid direction %d", int(d)))
}

// Opposite returns the reverse heading
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	panic(fmt.Sprintf("engine: invalid direction %d", int(d)))
}

// IsValid reports whether d is one of the four headings
func (d Direction) IsValid() bool {
	switch d {
	case North, East, South, West:
		return true
	}
	return false
}

// String returns the single-letter form: N, E, S or W
func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Name returns the lower-case long form, e.g. "north"
func (d Direction) Name() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// ParseDirection accepts N/E/S/W or north/east/south/west in any case
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, nil
	case "e", "east":
		return East, nil
	case "s", "south":
		return South, nil
	case "w", "west":
		return West, nil
	}
	return North, fmt.Errorf("invalid direction %q: use N, E, S or W", s)
}

// MarshalText encodes the direction as its single-letter form
func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes any form accepted by ParseDirection
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
