package engine

import "sort"

// Radar tracks the rover on a square wrap-around grid and guards it against
// obstacles. It is a single-owner value: callers must not drive one Radar
// from several goroutines.
type Radar struct {
	boundary  int
	position  Position
	direction Direction
	obstacles map[Position]struct{}
}

// NewRadar creates a radar for the square [-boundary, boundary]². boundary
// must be >= 0; this is not checked. Obstacles outside the square are kept
// but can never be reached. The obstacle set is fixed for the radar's lifetime.
func NewRadar(boundary int, start Position, facing Direction, obstacles ...Position) *Radar {
	set := make(map[Position]struct{}, len(obstacles))
	for _, o := range obstacles {
		set[o] = struct{}{}
	}

	return &Radar{
		boundary:  boundary,
		position:  start,
		direction: facing,
		obstacles: set,
	}
}

// Boundary returns the half-width of the playable square
func (r *Radar) Boundary() int {
	return r.boundary
}

// Position returns the current position
func (r *Radar) Position() Position {
	return r.position
}

// Direction returns the current heading
func (r *Radar) Direction() Direction {
	return r.direction
}

// IsObstacle reports whether p is an obstacle cell
func (r *Radar) IsObstacle(p Position) bool {
	_, blocked := r.obstacles[p]
	return blocked
}

// Obstacles returns the obstacle cells sorted by x, then y
func (r *Radar) Obstacles() []Position {
	out := make([]Position, 0, len(r.obstacles))
	for p := range r.obstacles {
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

// InBounds reports whether p lies inside the playable square
func (r *Radar) InBounds(p Position) bool {
	return p.X >= -r.boundary && p.X <= r.boundary &&
		p.Y >= -r.boundary && p.Y <= r.boundary
}

// TurnLeft rotates the heading counter-clockwise
func (r *Radar) TurnLeft() {
	r.direction = r.direction.TurnLeft()
}

// TurnRight rotates the heading clockwise
func (r *Radar) TurnRight() {
	r.direction = r.direction.TurnRight()
}

// MoveForward steps one cell along the heading
func (r *Radar) MoveForward() error {
	return r.move(r.direction)
}

// MoveBackward steps one cell against the heading
func (r *Radar) MoveBackward() error {
	return r.move(r.direction.Opposite())
}

// CanMoveForward reports whether MoveForward would succeed
func (r *Radar) CanMoveForward() bool {
	return !r.IsObstacle(r.position.Stepped(r.direction))
}

// CanMoveBackward reports whether MoveBackward would succeed
func (r *Radar) CanMoveBackward() bool {
	return !r.IsObstacle(r.position.Stepped(r.direction.Opposite()))
}

// move checks the un-wrapped candidate against the obstacle set, then commits
// and wraps. The three steps must stay in this order: an obstacle on the cell
// a move wraps onto is never reported.
func (r *Radar) move(heading Direction) error {
	candidate := r.position.Stepped(heading)

	if r.IsObstacle(candidate) {
		return &ObstacleError{At: candidate}
	}

	r.position = candidate
	r.wrapAroundEdge()
	return nil
}

// wrapAroundEdge clamps each axis onto the opposite edge once it leaves the square
func (r *Radar) wrapAroundEdge() {
	if r.position.Y > r.boundary {
		r.position.Y = -r.boundary
	}
	if r.position.Y < -r.boundary {
		r.position.Y = r.boundary
	}
	if r.position.X > r.boundary {
		r.position.X = -r.boundary
	}
	if r.position.X < -r.boundary {
		r.position.X = r.boundary
	}
}

// Snapshot returns a copy of the radar's observable state
func (r *Radar) Snapshot() State {
	return State{
		Boundary:  r.boundary,
		Position:  r.position,
		Direction: r.direction,
		Obstacles: r.Obstacles(),
	}
}

func sortPositions(ps []Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].X != ps[j].X {
			return ps[i].X < ps[j].X
		}
		return ps[i].Y < ps[j].Y
	})
}
