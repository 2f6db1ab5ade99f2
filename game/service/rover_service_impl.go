package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/wricardo/mars-rover/game/engine"
)

// roverServiceImpl implements the RoverService interface
type roverServiceImpl struct {
	sessions    SessionManager
	worlds      WorldManager
	maxCommands int
	mu          sync.RWMutex
}

// NewRoverService creates a new rover service instance.
// A maxCommands of zero or less disables the command length limit.
func NewRoverService(sessions SessionManager, worlds WorldManager, maxCommands int) RoverService {
	return &roverServiceImpl{
		sessions:    sessions,
		worlds:      worlds,
		maxCommands: maxCommands,
	}
}

// getWorldID returns the world_id for a given world name, used for consistent responses
func (s *roverServiceImpl) getWorldID(worldName string) string {
	available, err := s.worlds.ListWorlds()
	if err == nil {
		for _, w := range available {
			if w.Name == worldName {
				return w.WorldID
			}
		}
	}
	if worldName == "" {
		return engine.DefaultWorldID
	}
	return worldName
}

// CreateSession creates a new rover session placed in the named world
func (s *roverServiceImpl) CreateSession(ctx context.Context, worldName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var world *engine.WorldConfig
	var err error
	if worldName != "" {
		world, err = s.worlds.LoadWorld(worldName)
		if err != nil {
			if strings.Contains(err.Error(), "world not found") {
				available, listErr := s.worlds.ListWorlds()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, w := range available {
						ids = append(ids, w.WorldID)
					}
					return nil, fmt.Errorf("world '%s' not found. Available worlds: %v", worldName, ids)
				}
			}
			return nil, fmt.Errorf("failed to load world %s: %w", worldName, err)
		}
	} else {
		world = s.worlds.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", world)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	worldID := worldName
	if worldID == "" {
		worldID = s.getWorldID(world.Name)
	}

	info := s.sessionInfo(sess)
	info.WorldName = worldID
	return info, nil
}

// GetSession retrieves session information. It takes the write lock
// because touching the session updates LastAccessedAt.
func (s *roverServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *roverServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *roverServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Execute runs a command string against a session's rover. Commands before
// an obstacle stay committed; the result reports where and why it stopped.
func (s *roverServiceImpl) Execute(ctx context.Context, sessionID, commands string, opts ExecuteOptions) (*CommandResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(commands); s.maxCommands > 0 && n > s.maxCommands {
		return nil, fmt.Errorf("%w: %d characters exceeds limit of %d", ErrTooManyCommands, n, s.maxCommands)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result := &CommandResult{
		Success: true,
		Reset:   opts.Reset,
		Intent:  opts.Intent,
	}

	if opts.Reset {
		if err := resetRover(sess); err != nil {
			return nil, err
		}
	}

	radar := sess.Rover.Radar()
	result.StartPos = radar.Position()
	result.StartFacing = radar.Direction()

	for _, c := range commands {
		if engine.IsCommand(c) {
			result.Requested++
		} else {
			result.Ignored++
		}
	}

	steps, runErr := sess.Rover.Trace(commands)
	result.Steps = steps

	now := time.Now()
	for _, step := range steps {
		sess.History = append(sess.History, HistoryEntry{
			Seq:       len(sess.History) + 1,
			Command:   step.Command,
			From:      step.From,
			To:        step.To,
			Facing:    step.Facing,
			OK:        step.OK,
			Blocked:   step.Blocked,
			Intent:    opts.Intent,
			Timestamp: now,
		})
		if step.OK {
			result.Executed++
		}
	}

	if runErr != nil {
		var cmdErr *engine.CommandError
		if !errors.As(runErr, &cmdErr) {
			return nil, fmt.Errorf("failed to execute commands: %w", runErr)
		}
		result.Success = false
		result.StoppedOnCommand = cmdErr.Index + 1
		result.StopCommand = string(cmdErr.Command)
		result.StoppedReason = cmdErr.Error()

		var obstacle *engine.ObstacleError
		if errors.As(runErr, &obstacle) {
			at := obstacle.At
			result.StopReasonCode = StopObstacle
			result.Blocked = &at
		}
	}

	state := radar.Snapshot()
	result.State = &state
	result.EndPos = state.Position
	result.EndFacing = state.Direction
	result.PossibleCommands = PossibleCommands(radar)
	result.LocalView3x3 = LocalView3x3(radar)

	if result.Success {
		result.Message = fmt.Sprintf("Executed %d commands; rover at %s facing %s",
			result.Executed, state.Position, state.Direction.Name())
	} else {
		result.Message = fmt.Sprintf("Stopped on command %d (%s): %s; rover at %s facing %s",
			result.StoppedOnCommand, result.StopCommand, describeStop(result), state.Position, state.Direction.Name())
	}

	return result, nil
}

// Reset places the rover back at its world's start. History is kept.
func (s *roverServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if err := resetRover(sess); err != nil {
		return nil, err
	}

	state := sess.Rover.Radar().Snapshot()
	return &state, nil
}

// GetState retrieves the current rover state
func (s *roverServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Rover.Radar().Snapshot()
	return &state, nil
}

// GetHistory returns paginated command history
func (s *roverServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.History
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var commands []HistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			commands = append(commands, history[i])
		}
	} else if start < total {
		commands = append(commands, history[start:end]...)
	}

	if commands == nil {
		commands = []HistoryEntry{}
	}

	return &HistoryResponse{
		Commands:      commands,
		TotalCommands: total,
		Page:          opts.Page,
		PageSize:      opts.Limit,
		TotalPages:    totalPages,
		HasNext:       opts.Page < totalPages,
		HasPrevious:   opts.Page > 1,
	}, nil
}

// DescribeCell reports what the rover's radar knows about a cell
func (s *roverServiceImpl) DescribeCell(ctx context.Context, sessionID string, at engine.Position) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	radar := sess.Rover.Radar()
	return &CellInfo{
		Position: at,
		InBounds: radar.InBounds(at),
		Obstacle: radar.IsObstacle(at),
		Rover:    radar.Position() == at,
		Distance: engine.ManhattanDistance(radar.Position(), at),
	}, nil
}

// ListWorlds returns available worlds
func (s *roverServiceImpl) ListWorlds(ctx context.Context) ([]*WorldInfo, error) {
	return s.worlds.ListWorlds()
}

// LoadWorld loads a specific world configuration
func (s *roverServiceImpl) LoadWorld(ctx context.Context, worldName string) (*engine.WorldConfig, error) {
	return s.worlds.LoadWorld(worldName)
}

// SaveWorld saves a world configuration to disk
func (s *roverServiceImpl) SaveWorld(ctx context.Context, worldName string, world *engine.WorldConfig) error {
	return s.worlds.SaveWorld(worldName, world)
}

func (s *roverServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	state := sess.Rover.Radar().Snapshot()
	return &SessionInfo{
		ID:             sess.ID,
		WorldName:      s.getWorldID(sess.World.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          &state,
		World:          sess.World,
		CommandCount:   len(sess.History),
	}
}

func resetRover(sess *Session) error {
	rover, err := engine.NewRoverFromConfig(sess.World)
	if err != nil {
		return fmt.Errorf("failed to reset rover: %w", err)
	}
	sess.Rover = rover
	return nil
}

func describeStop(result *CommandResult) string {
	if result.StopReasonCode == StopObstacle && result.Blocked != nil {
		return fmt.Sprintf("obstacle at %s", result.Blocked)
	}
	return result.StoppedReason
}

// PossibleCommands lists the commands that would succeed from the current cell
func PossibleCommands(radar *engine.Radar) []string {
	commands := []string{string(engine.CommandLeft), string(engine.CommandRight)}
	if radar.CanMoveForward() {
		commands = append(commands, string(engine.CommandForward))
	}
	if radar.CanMoveBackward() {
		commands = append(commands, string(engine.CommandBackward))
	}
	return commands
}

// LocalView3x3 renders the rover's neighbourhood with north at the top.
// R is the rover, # an obstacle, ~ outside the grid and . open ground.
func LocalView3x3(radar *engine.Radar) []string {
	pos := radar.Position()
	lines := make([]string, 0, 3)
	for dy := 1; dy >= -1; dy-- {
		var row strings.Builder
		for dx := -1; dx <= 1; dx++ {
			p := engine.Position{X: pos.X + dx, Y: pos.Y + dy}
			switch {
			case dx == 0 && dy == 0:
				row.WriteString("R")
			case radar.IsObstacle(p):
				row.WriteString("#")
			case !radar.InBounds(p):
				row.WriteString("~")
			default:
				row.WriteString(".")
			}
		}
		lines = append(lines, row.String())
	}
	return lines
}
