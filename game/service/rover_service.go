package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mars-rover/game/engine"
)

var (
	// ErrTooManyCommands is returned when a command string exceeds the configured limit
	ErrTooManyCommands = errors.New("too many commands")
)

// RoverService defines all rover-related operations
type RoverService interface {
	// Session Management
	CreateSession(ctx context.Context, worldName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rover Operations
	Execute(ctx context.Context, sessionID, commands string, opts ExecuteOptions) (*CommandResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.State, error)

	// Rover State
	GetState(ctx context.Context, sessionID string) (*engine.State, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	DescribeCell(ctx context.Context, sessionID string, at engine.Position) (*CellInfo, error)

	// Worlds
	ListWorlds(ctx context.Context) ([]*WorldInfo, error)
	LoadWorld(ctx context.Context, worldName string) (*engine.WorldConfig, error)
	SaveWorld(ctx context.Context, worldName string, world *engine.WorldConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, world *engine.WorldConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, world *engine.WorldConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// WorldManager handles world configuration loading
type WorldManager interface {
	LoadWorld(name string) (*engine.WorldConfig, error)
	ListWorlds() ([]*WorldInfo, error)
	GetDefault() *engine.WorldConfig
	SaveWorld(name string, world *engine.WorldConfig) error
}

// Session represents an active rover session
type Session struct {
	ID             string
	Rover          *engine.Rover
	World          *engine.WorldConfig
	History        []HistoryEntry
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
