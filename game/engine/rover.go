package engine

// Command characters understood by the rover. Anything else is ignored.
const (
	CommandLeft     = 'l'
	CommandRight    = 'r'
	CommandForward  = 'f'
	CommandBackward = 'b'
)

// IsCommand reports whether c belongs to the command alphabet
func IsCommand(c rune) bool {
	switch c {
	case CommandLeft, CommandRight, CommandForward, CommandBackward:
		return true
	}
	return false
}

// Rover interprets command sequences against a single Radar
type Rover struct {
	radar *Radar
}

// NewRover wraps radar. The rover has no state of its own.
func NewRover(radar *Radar) *Rover {
	return &Rover{radar: radar}
}

// Radar returns the underlying radar
func (rv *Rover) Radar() *Radar {
	return rv.radar
}

// Position returns the rover position
func (rv *Rover) Position() Position {
	return rv.radar.Position()
}

// Direction returns the rover heading
func (rv *Rover) Direction() Direction {
	return rv.radar.Direction()
}

// AcceptCommands runs commands left to right. The first blocked move stops
// processing and returns a *CommandError; everything before it stays applied.
func (rv *Rover) AcceptCommands(commands string) error {
	return rv.run(commands, nil)
}

// Trace behaves like AcceptCommands and also returns one Step per processed
// command. Ignored characters produce no step. When a move is blocked the
// last step has OK set to false.
func (rv *Rover) Trace(commands string) ([]Step, error) {
	var steps []Step
	err := rv.run(commands, func(s Step) {
		steps = append(steps, s)
	})
	return steps, err
}

func (rv *Rover) run(commands string, observe func(Step)) error {
	for i, c := range []rune(commands) {
		if !IsCommand(c) {
			continue
		}

		from, heading := rv.radar.Position(), rv.radar.Direction()
		err := rv.apply(c)

		if observe != nil {
			step := Step{
				Index:   i,
				Command: string(c),
				From:    from,
				To:      rv.radar.Position(),
				Facing:  rv.radar.Direction(),
				OK:      err == nil,
			}
			if heading != step.Facing {
				step.Turned = true
			}
			if err != nil {
				if obstacle, ok := err.(*ObstacleError); ok {
					blocked := obstacle.At
					step.Blocked = &blocked
				}
			}
			observe(step)
		}

		if err != nil {
			return &CommandError{Index: i, Command: c, Err: err}
		}
	}
	return nil
}

func (rv *Rover) apply(c rune) error {
	switch c {
	case CommandLeft:
		rv.radar.TurnLeft()
	case CommandRight:
		rv.radar.TurnRight()
	case CommandForward:
		return rv.radar.MoveForward()
	case CommandBackward:
		return rv.radar.MoveBackward()
	}
	return nil
}
