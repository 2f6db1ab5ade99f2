package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mars-rover/game/engine"
	"github.com/wricardo/mars-rover/game/service"
	"github.com/wricardo/mars-rover/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, world *engine.WorldConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	rover, err := engine.NewRoverFromConfig(world)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Rover:          rover,
		World:          world,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, world *engine.WorldConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, world)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	session, exists := m.sessions[id]
	if !exists {
		return errors.New("session not found")
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// MockWorldManager implements service.WorldManager for testing
type MockWorldManager struct {
	worlds map[string]*engine.WorldConfig
	saved  map[string]*engine.WorldConfig
}

func NewMockWorldManager() *MockWorldManager {
	// Obstacles two cells north and two cells east of the origin
	testWorld := &engine.WorldConfig{
		Name:        "test",
		Description: "Test world",
		Boundary:    3,
		Start:       engine.Position{},
		Facing:      engine.North,
		Obstacles:   []engine.Position{{X: 0, Y: 2}, {X: 2, Y: 0}},
	}

	return &MockWorldManager{
		worlds: map[string]*engine.WorldConfig{
			"test":    testWorld,
			"default": testWorld,
		},
		saved: make(map[string]*engine.WorldConfig),
	}
}

func (m *MockWorldManager) LoadWorld(name string) (*engine.WorldConfig, error) {
	world, exists := m.worlds[name]
	if !exists {
		return nil, errors.New("world not found")
	}
	return world, nil
}

func (m *MockWorldManager) ListWorlds() ([]*service.WorldInfo, error) {
	result := make([]*service.WorldInfo, 0, len(m.worlds))
	for name, world := range m.worlds {
		result = append(result, &service.WorldInfo{
			Filename:      name + ".json",
			WorldID:       name,
			Name:          world.Name,
			Description:   world.Description,
			Boundary:      world.Boundary,
			ObstacleCount: len(world.Obstacles),
		})
	}
	return result, nil
}

func (m *MockWorldManager) GetDefault() *engine.WorldConfig {
	return m.worlds["default"]
}

func (m *MockWorldManager) SaveWorld(name string, world *engine.WorldConfig) error {
	m.saved[name] = world
	return nil
}

func newTestService(t *testing.T, maxCommands int) (service.RoverService, string) {
	t.Helper()
	svc := service.NewRoverService(NewMockSessionManager(), NewMockWorldManager(), maxCommands)
	info, err := svc.CreateSession(context.Background(), "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, info.ID
}

// Test cases
func TestRoverService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewRoverService(NewMockSessionManager(), NewMockWorldManager(), 0)

	tests := []struct {
		name      string
		worldName string
		wantErr   bool
	}{
		{
			name:      "create with default world",
			worldName: "",
			wantErr:   false,
		},
		{
			name:      "create with specific world",
			worldName: "test",
			wantErr:   false,
		},
		{
			name:      "create with invalid world",
			worldName: "nonexistent",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.worldName)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !strings.Contains(err.Error(), "Available worlds") {
					t.Errorf("Expected available worlds in error, got %v", err)
				}
				return
			}
			if session == nil || session.State == nil {
				t.Fatal("CreateSession() returned nil session or state")
			}
			if session.State.Position != (engine.Position{}) || session.State.Direction != engine.North {
				t.Errorf("Unexpected start state: %+v", session.State)
			}
		})
	}
}

func TestRoverService_Execute(t *testing.T) {
	tests := []struct {
		name      string
		commands  string
		success   bool
		executed  int
		requested int
		ignored   int
		endPos    engine.Position
		endFacing engine.Direction
	}{
		{"turn only", "lr", true, 2, 2, 0, engine.Position{}, engine.North},
		{"move backward twice", "rbb", true, 3, 3, 0, engine.Position{X: -2, Y: 0}, engine.East},
		{"ignores unknown characters", "lxf", true, 2, 2, 1, engine.Position{X: -1, Y: 0}, engine.West},
		{"blocked going north", "fff", false, 1, 3, 0, engine.Position{X: 0, Y: 1}, engine.North},
		{"blocked going east", "rfflf", false, 2, 5, 0, engine.Position{X: 1, Y: 0}, engine.East},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, id := newTestService(t, 0)

			result, err := svc.Execute(context.Background(), id, tt.commands, service.ExecuteOptions{})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if result.Success != tt.success {
				t.Errorf("Expected success=%v, got %v (%s)", tt.success, result.Success, result.Message)
			}
			if result.Executed != tt.executed || result.Requested != tt.requested || result.Ignored != tt.ignored {
				t.Errorf("Expected executed/requested/ignored %d/%d/%d, got %d/%d/%d",
					tt.executed, tt.requested, tt.ignored, result.Executed, result.Requested, result.Ignored)
			}
			if result.EndPos != tt.endPos || result.EndFacing != tt.endFacing {
				t.Errorf("Expected end %s facing %s, got %s facing %s", tt.endPos, tt.endFacing, result.EndPos, result.EndFacing)
			}
			if result.State == nil || result.State.Position != result.EndPos {
				t.Errorf("State does not match end position: %+v", result.State)
			}
		})
	}
}

func TestRoverService_ExecuteReportsObstacle(t *testing.T) {
	svc, id := newTestService(t, 0)

	result, err := svc.Execute(context.Background(), id, "ff", service.ExecuteOptions{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Success {
		t.Fatal("Expected failure")
	}
	if result.StoppedOnCommand != 2 || result.StopCommand != "f" {
		t.Errorf("Expected stop on command 2 (f), got %d (%s)", result.StoppedOnCommand, result.StopCommand)
	}
	if result.StopReasonCode != service.StopObstacle {
		t.Errorf("Expected stop code %q, got %q", service.StopObstacle, result.StopReasonCode)
	}
	if result.Blocked == nil || *result.Blocked != (engine.Position{X: 0, Y: 2}) {
		t.Errorf("Expected blocked cell (0,2), got %v", result.Blocked)
	}
	if len(result.Steps) != 2 || result.Steps[1].OK {
		t.Errorf("Expected two steps with the last failing, got %+v", result.Steps)
	}
	if !strings.Contains(result.Message, "obstacle at (0,2)") {
		t.Errorf("Unexpected message: %s", result.Message)
	}

	expectedCommands := []string{"l", "r", "b"}
	if strings.Join(result.PossibleCommands, "") != strings.Join(expectedCommands, "") {
		t.Errorf("Expected possible commands %v, got %v", expectedCommands, result.PossibleCommands)
	}

	expectedView := []string{".#.", ".R.", "..."}
	for i, row := range expectedView {
		if result.LocalView3x3[i] != row {
			t.Errorf("View row %d: expected %q, got %q", i, row, result.LocalView3x3[i])
		}
	}
}

func TestRoverService_ExecuteTooManyCommands(t *testing.T) {
	svc, id := newTestService(t, 3)

	_, err := svc.Execute(context.Background(), id, "rbbb", service.ExecuteOptions{})
	if !errors.Is(err, service.ErrTooManyCommands) {
		t.Fatalf("Expected ErrTooManyCommands, got %v", err)
	}

	state, err := svc.GetState(context.Background(), id)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if state.Position != (engine.Position{}) || state.Direction != engine.North {
		t.Errorf("Rejected commands changed the rover: %+v", state)
	}

	if _, err := svc.Execute(context.Background(), id, "rbb", service.ExecuteOptions{}); err != nil {
		t.Errorf("Expected commands at the limit to run, got %v", err)
	}
}

func TestRoverService_ExecuteCancelledContext(t *testing.T) {
	svc, id := newTestService(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Execute(ctx, id, "f", service.ExecuteOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRoverService_ExecuteWithReset(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, 0)

	if _, err := svc.Execute(ctx, id, "rbb", service.ExecuteOptions{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	result, err := svc.Execute(ctx, id, "l", service.ExecuteOptions{Reset: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Reset || result.StartPos != (engine.Position{}) || result.StartFacing != engine.North {
		t.Errorf("Expected reset to the world start, got start %s facing %s", result.StartPos, result.StartFacing)
	}
	if result.EndFacing != engine.West {
		t.Errorf("Expected West after reset and left turn, got %s", result.EndFacing)
	}
}

func TestRoverService_InvalidSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 0)

	if _, err := svc.Execute(ctx, "nope", "f", service.ExecuteOptions{}); err == nil {
		t.Error("Execute() expected error for invalid session")
	}
	if _, err := svc.GetState(ctx, "nope"); err == nil {
		t.Error("GetState() expected error for invalid session")
	}
	if _, err := svc.Reset(ctx, "nope"); err == nil {
		t.Error("Reset() expected error for invalid session")
	}
	if _, err := svc.GetSession(ctx, "nope"); err == nil {
		t.Error("GetSession() expected error for invalid session")
	}
	if _, err := svc.DescribeCell(ctx, "nope", engine.Position{}); err == nil {
		t.Error("DescribeCell() expected error for invalid session")
	}
}

func TestRoverService_GetHistory(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, 0)

	// Two commands, a reset, then three more; history survives the reset.
	if _, err := svc.Execute(ctx, id, "lf", service.ExecuteOptions{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := svc.Reset(ctx, id); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if _, err := svc.Execute(ctx, id, "rbr", service.ExecuteOptions{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	tests := []struct {
		name        string
		opts        service.HistoryOptions
		wantLen     int
		firstSeq    int
		hasNext     bool
		hasPrevious bool
	}{
		{"default options", service.HistoryOptions{}, 5, 5, false, false},
		{"ascending first page", service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"}, 2, 1, true, false},
		{"ascending last page", service.HistoryOptions{Page: 3, Limit: 2, Order: "asc"}, 1, 5, false, true},
		{"descending second page", service.HistoryOptions{Page: 2, Limit: 2, Order: "desc"}, 2, 3, true, true},
		{"page past the end", service.HistoryOptions{Page: 9, Limit: 2, Order: "asc"}, 0, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetHistory(ctx, id, tt.opts)
			if err != nil {
				t.Fatalf("GetHistory() error = %v", err)
			}
			if result.Commands == nil {
				t.Fatal("GetHistory() returned nil commands slice")
			}
			if result.TotalCommands != 5 {
				t.Errorf("Expected 5 total commands, got %d", result.TotalCommands)
			}
			if len(result.Commands) != tt.wantLen {
				t.Fatalf("Expected %d commands, got %d", tt.wantLen, len(result.Commands))
			}
			if tt.wantLen > 0 && result.Commands[0].Seq != tt.firstSeq {
				t.Errorf("Expected first seq %d, got %d", tt.firstSeq, result.Commands[0].Seq)
			}
			if result.HasNext != tt.hasNext || result.HasPrevious != tt.hasPrevious {
				t.Errorf("Expected next/previous %v/%v, got %v/%v", tt.hasNext, tt.hasPrevious, result.HasNext, result.HasPrevious)
			}
		})
	}

	if _, err := svc.GetHistory(ctx, "nonexistent", service.HistoryOptions{}); err == nil {
		t.Error("GetHistory() expected error for invalid session")
	}
}

func TestRoverService_HistoryRecordsBlockedCommand(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, 0)

	if _, err := svc.Execute(ctx, id, "fff", service.ExecuteOptions{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	result, err := svc.GetHistory(ctx, id, service.HistoryOptions{Order: "asc"})
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(result.Commands) != 2 {
		t.Fatalf("Expected 2 entries (the third command never ran), got %d", len(result.Commands))
	}
	last := result.Commands[1]
	if last.OK || last.Blocked == nil || *last.Blocked != (engine.Position{X: 0, Y: 2}) {
		t.Errorf("Expected blocked entry at (0,2), got %+v", last)
	}
}

func TestRoverService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, 0)

	if _, err := svc.Execute(ctx, id, "rbbl", service.ExecuteOptions{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	state, err := svc.Reset(ctx, id)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if state.Position != (engine.Position{}) || state.Direction != engine.North {
		t.Errorf("Expected rover back at origin facing North, got %s facing %s", state.Position, state.Direction)
	}
	if len(state.Obstacles) != 2 {
		t.Errorf("Expected obstacles to survive reset, got %v", state.Obstacles)
	}
}

func TestRoverService_DescribeCell(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, 0)

	tests := []struct {
		at       engine.Position
		inBounds bool
		obstacle bool
		rover    bool
		distance int
	}{
		{engine.Position{}, true, false, true, 0},
		{engine.Position{X: 0, Y: 2}, true, true, false, 2},
		{engine.Position{X: -3, Y: 3}, true, false, false, 6},
		{engine.Position{X: 4, Y: 0}, false, false, false, 4},
	}

	for _, tt := range tests {
		t.Run(tt.at.String(), func(t *testing.T) {
			cell, err := svc.DescribeCell(ctx, id, tt.at)
			if err != nil {
				t.Fatalf("DescribeCell() error = %v", err)
			}
			if cell.InBounds != tt.inBounds || cell.Obstacle != tt.obstacle || cell.Rover != tt.rover || cell.Distance != tt.distance {
				t.Errorf("Unexpected cell: %+v", cell)
			}
		})
	}
}

func TestRoverService_ListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	svc := service.NewRoverService(NewMockSessionManager(), NewMockWorldManager(), 0)

	var ids []string
	for i := 0; i < 3; i++ {
		info, err := svc.CreateSession(ctx, "test")
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
		ids = append(ids, info.ID)
	}

	sessionList, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}

	if err := svc.DeleteSession(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, ids[0]); err == nil {
		t.Error("Expected deleted session to be gone")
	}
	sessionList, _ = svc.ListSessions(ctx)
	if len(sessionList) != 2 {
		t.Errorf("Expected 2 sessions after delete, got %d", len(sessionList))
	}
}

func TestRoverService_Worlds(t *testing.T) {
	ctx := context.Background()
	worlds := NewMockWorldManager()
	svc := service.NewRoverService(NewMockSessionManager(), worlds, 0)

	list, err := svc.ListWorlds(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListWorlds() = %v, %v", list, err)
	}

	world, err := svc.LoadWorld(ctx, "test")
	if err != nil || world.Boundary != 3 {
		t.Fatalf("LoadWorld() = %+v, %v", world, err)
	}

	if err := svc.SaveWorld(ctx, "copy", world); err != nil {
		t.Fatalf("SaveWorld() error = %v", err)
	}
	if worlds.saved["copy"] != world {
		t.Error("SaveWorld() did not reach the world manager")
	}
}

// Run with -race: readers touch LastAccessedAt while others list sessions
func TestRoverService_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	svc := service.NewRoverService(session.NewManager(), NewMockWorldManager(), 0)

	info, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	const workers, calls = 4, 200
	var wg sync.WaitGroup
	errs := make(chan error, workers*calls)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < calls; i++ {
				if _, err := svc.GetState(ctx, info.ID); err != nil {
					errs <- err
				}
				if _, err := svc.GetSession(ctx, info.ID); err != nil {
					errs <- err
				}
				if _, err := svc.ListSessions(ctx); err != nil {
					errs <- err
				}
				if i%10 == 0 {
					if _, err := svc.Execute(ctx, info.ID, "l", service.ExecuteOptions{}); err != nil {
						errs <- err
					}
					if _, err := svc.GetHistory(ctx, info.ID, service.HistoryOptions{}); err != nil {
						errs <- err
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent call failed: %v", err)
	}

	got, err := svc.GetSession(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if want := workers * calls / 10; got.CommandCount != want {
		t.Errorf("Expected %d commands in history, got %d", want, got.CommandCount)
	}
}

func TestRoverService_ExecuteRecordsIntent(t *testing.T) {
	svc, id := newTestService(t, 0)
	ctx := context.Background()

	result, err := svc.Execute(ctx, id, "rf", service.ExecuteOptions{Intent: "scout east"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Intent != "scout east" {
		t.Errorf("Expected intent in result, got %q", result.Intent)
	}

	if _, err := svc.Execute(ctx, id, "l", service.ExecuteOptions{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	history, err := svc.GetHistory(ctx, id, service.HistoryOptions{Order: "asc"})
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history.Commands) != 3 {
		t.Fatalf("Expected 3 history entries, got %d", len(history.Commands))
	}
	for i, want := range []string{"scout east", "scout east", ""} {
		if got := history.Commands[i].Intent; got != want {
			t.Errorf("Entry %d: expected intent %q, got %q", i+1, want, got)
		}
	}
}
