package service

import (
	"time"

	"github.com/wricardo/mars-rover/game/engine"
)

// Stop reason codes reported in CommandResult
const (
	StopObstacle = "obstacle"
)

// SessionInfo provides information about a rover session
type SessionInfo struct {
	ID             string              `json:"id"`
	WorldName      string              `json:"world_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	State          *engine.State       `json:"state"`
	World          *engine.WorldConfig `json:"world"`
	CommandCount   int                 `json:"command_count"`
}

// CommandResult contains the outcome of one command string
type CommandResult struct {
	// Summary
	Success   bool          `json:"success"`
	State     *engine.State `json:"state"`
	Message   string        `json:"message"`
	Requested int           `json:"requested"` // recognised commands in the request
	Executed  int           `json:"executed"`  // commands that completed
	Ignored   int           `json:"ignored,omitempty"`
	Reset     bool          `json:"reset,omitempty"`
	Intent    string        `json:"intent,omitempty"`

	// Failure diagnostics
	StoppedReason    string           `json:"stopped_reason,omitempty"`
	StopReasonCode   string           `json:"stop_reason_code,omitempty"`
	StoppedOnCommand int              `json:"stopped_on_command,omitempty"` // 1-based character index
	StopCommand      string           `json:"stop_command,omitempty"`
	Blocked          *engine.Position `json:"blocked,omitempty"`

	// Start/end snapshot
	StartPos    engine.Position  `json:"start_pos"`
	EndPos      engine.Position  `json:"end_pos"`
	StartFacing engine.Direction `json:"start_facing"`
	EndFacing   engine.Direction `json:"end_facing"`

	// Per-step trace (only for this call)
	Steps []engine.Step `json:"steps,omitempty"`

	// Decision aids
	PossibleCommands []string `json:"possible_commands,omitempty"`
	LocalView3x3     []string `json:"local_view_3x3,omitempty"`
}

// ExecuteOptions tunes a single Execute call
type ExecuteOptions struct {
	Reset  bool   // return the rover to its start before running
	Intent string // caller's stated goal, kept in history next to each command
}

// HistoryEntry is one processed command in a session's history
type HistoryEntry struct {
	Seq       int              `json:"seq"`
	Command   string           `json:"command"`
	From      engine.Position  `json:"from"`
	To        engine.Position  `json:"to"`
	Facing    engine.Direction `json:"facing"`
	OK        bool             `json:"ok"`
	Blocked   *engine.Position `json:"blocked,omitempty"`
	Intent    string           `json:"intent,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// HistoryOptions configures command history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated command history
type HistoryResponse struct {
	Commands      []HistoryEntry `json:"commands"`
	TotalCommands int            `json:"total_commands"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
	TotalPages    int            `json:"total_pages"`
	HasNext       bool           `json:"has_next"`
	HasPrevious   bool           `json:"has_previous"`
}

// WorldInfo provides information about a stored world
type WorldInfo struct {
	Filename      string `json:"filename"`
	WorldID       string `json:"world_id"` // The identifier to use for session creation
	Name          string `json:"name"`     // Display name
	Description   string `json:"description"`
	Boundary      int    `json:"boundary"`
	ObstacleCount int    `json:"obstacle_count"`
}

// CellInfo describes a single grid cell relative to the rover
type CellInfo struct {
	Position engine.Position `json:"position"`
	InBounds bool            `json:"in_bounds"`
	Obstacle bool            `json:"obstacle"`
	Rover    bool            `json:"rover"`
	Distance int             `json:"distance"` // Manhattan distance from the rover
}
