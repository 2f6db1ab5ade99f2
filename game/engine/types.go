package engine

const (
	// Validation constants
	MinBoundary    = 0
	MaxBoundary    = 10000
	MaxObstacles   = 10000
	DefaultBound   = 10
	DefaultWorldID = "default"

	// Worlds with more cells than this skip the reachability flood fill
	MaxFloodCells = 1 << 20
)

// State is a serializable snapshot of a rover
type State struct {
	Boundary  int        `json:"boundary"`
	Position  Position   `json:"position"`
	Direction Direction  `json:"direction"`
	Obstacles []Position `json:"obstacles,omitempty"`
}

// Step records the outcome of one processed command
type Step struct {
	Index   int       `json:"index"` // zero-based index into the command string
	Command string    `json:"command"`
	From    Position  `json:"from"`
	To      Position  `json:"to"`
	Facing  Direction `json:"facing"`
	OK      bool      `json:"ok"`
	Turned  bool      `json:"turned,omitempty"`
	Blocked *Position `json:"blocked,omitempty"` // obstacle cell when OK is false
}

// WorldConfig describes a starting scenario for a rover
type WorldConfig struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Boundary    int        `json:"boundary" yaml:"boundary"`
	Start       Position   `json:"start" yaml:"start"`
	Facing      Direction  `json:"facing" yaml:"facing"`
	Obstacles   []Position `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
}

// WorldReport summarizes heuristics about a world layout
type WorldReport struct {
	Name              string     `json:"name"`
	Boundary          int        `json:"boundary"`
	Cells             int        `json:"cells"`
	ObstacleCount     int        `json:"obstacle_count"`
	Density           float64    `json:"density"`
	OutOfBounds       []Position `json:"out_of_bounds,omitempty"`
	EdgeObstacles     []Position `json:"edge_obstacles,omitempty"`
	StartBoxedIn      bool       `json:"start_boxed_in"`
	BlockedNeighbours []Position `json:"blocked_neighbours,omitempty"`

	OpenCells           int        `json:"open_cells"`
	ReachableCells      int        `json:"reachable_cells"` // open cells only
	ReachableObstacles  []Position `json:"reachable_obstacles,omitempty"`
	ReachabilitySkipped bool       `json:"reachability_skipped,omitempty"`
}
