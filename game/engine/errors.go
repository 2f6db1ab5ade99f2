package engine

import (
	"errors"
	"fmt"
)

// ErrObstacleHit is the only failure of the motion engine: the next cell in
// the direction of travel is occupied.
var ErrObstacleHit = errors.New("obstacle hit")

// ObstacleError is returned by the Radar when a move is blocked
type ObstacleError struct {
	At Position // the blocked cell, before any wrap-around
}

func (e *ObstacleError) Error() string {
	return fmt.Sprintf("obstacle hit at %s", e.At)
}

// Is makes errors.Is(err, ErrObstacleHit) true for any ObstacleError
func (e *ObstacleError) Is(target error) bool {
	return target == ErrObstacleHit
}

// CommandError is returned by the Rover when a command sequence is aborted.
// Commands before Index have been applied.
type CommandError struct {
	Index   int  // zero-based position of the failing command
	Command rune // the failing command character
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d (%c): %v", e.Index+1, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
