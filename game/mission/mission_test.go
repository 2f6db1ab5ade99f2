package mission

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mars-rover/game/engine"
)

type stubLoader map[string]*engine.WorldConfig

func (s stubLoader) LoadWorld(name string) (*engine.WorldConfig, error) {
	if w, ok := s[name]; ok {
		return w, nil
	}
	return nil, errors.New("world not found")
}

const sampleMission = `
// comment lines are skipped
boundary 5
start 0 -2 facing east
obstacle 1 1
obstacle -3 4
run "ffrff"
run "bbl"
`

func TestParse(t *testing.T) {
	script, err := Parse("sample", sampleMission)
	require.NoError(t, err)
	require.Len(t, script.Statements, 6)

	require.NotNil(t, script.Statements[0].Boundary)
	assert.Equal(t, 5, *script.Statements[0].Boundary)

	start := script.Statements[1].Start
	require.NotNil(t, start)
	assert.Equal(t, Coordinate{X: 0, Y: -2}, *start.At)
	assert.Equal(t, "east", start.Facing)

	require.NotNil(t, script.Statements[3].Obstacle)
	assert.Equal(t, Coordinate{X: -3, Y: 4}, *script.Statements[3].Obstacle)

	runs := script.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "ffrff", *runs[0].Run)
	assert.Equal(t, 7, runs[0].Pos.Line)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unknown keyword", `jump 3`},
		{"missing facing", `start 1 2 east`},
		{"unquoted commands", `run ffr`},
		{"coordinate needs two numbers", `obstacle 4`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.name, tt.source)
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	script, err := Parse("empty", "// nothing to do\n")
	require.NoError(t, err)
	assert.Empty(t, script.Statements)
}

func TestBuildWorld(t *testing.T) {
	script, err := Parse("sample", sampleMission)
	require.NoError(t, err)

	world, err := script.BuildWorld(nil)
	require.NoError(t, err)

	assert.Equal(t, 5, world.Boundary)
	assert.Equal(t, engine.Position{X: 0, Y: -2}, world.Start)
	assert.Equal(t, engine.East, world.Facing)
	assert.Equal(t, []engine.Position{{X: 1, Y: 1}, {X: -3, Y: 4}}, world.Obstacles)
}

func TestBuildWorld_FromNamedWorld(t *testing.T) {
	crater := &engine.WorldConfig{
		Name:        "crater",
		Description: "Crater rim",
		Boundary:    4,
		Facing:      engine.South,
		Obstacles:   []engine.Position{{X: 2, Y: 2}},
	}
	loader := stubLoader{"crater": crater}

	script, err := Parse("named", `world "crater"
obstacle 0 3
run "f"`)
	require.NoError(t, err)

	world, err := script.BuildWorld(loader)
	require.NoError(t, err)

	assert.Equal(t, "crater", world.Name)
	assert.Equal(t, engine.South, world.Facing)
	assert.Len(t, world.Obstacles, 2)
	assert.Len(t, crater.Obstacles, 1, "loaded world must not be mutated")
}

func TestBuildWorld_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr error
		message string
	}{
		{"setup after run", "run \"f\"\nobstacle 1 1", ErrSetupAfterRun, "line 2"},
		{"world not first", "boundary 3\nworld \"crater\"", ErrWorldNotFirst, ""},
		{"unknown world", `world "atlantis"`, nil, "world not found"},
		{"bad facing", `start 0 0 facing up`, nil, "invalid direction"},
		{"start outside", "boundary 2\nstart 5 0 facing n", nil, "outside the boundary"},
		{"obstacle on start", `obstacle 0 0`, nil, "start cell"},
		{"negative boundary", `boundary -1`, nil, "boundary must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := Parse(tt.name, tt.source)
			require.NoError(t, err)

			_, err = script.BuildWorld(stubLoader{})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestRun(t *testing.T) {
	script, err := Parse("sample", sampleMission)
	require.NoError(t, err)

	report, err := Run(context.Background(), script, nil)
	require.NoError(t, err)
	require.Len(t, report.Runs, 2)

	// East from (0,-2): f (1,-2), f (2,-2), r faces south, f (2,-3), f (2,-4)
	first := report.Runs[0]
	assert.True(t, first.OK)
	assert.Equal(t, 5, first.Executed)
	assert.Equal(t, engine.Position{X: 2, Y: -4}, first.Position)
	assert.Equal(t, engine.South, first.Direction)

	// Backing up north twice: (2,-3), (2,-2), then l faces east
	second := report.Runs[1]
	assert.True(t, second.OK)
	assert.Equal(t, engine.Position{X: 2, Y: -2}, second.Position)
	assert.Equal(t, engine.East, second.Direction)

	assert.Equal(t, 0, report.Failed())
	assert.Equal(t, second.Position, report.Final.Position)
}

func TestRun_ObstacleStopsOnlyThatRun(t *testing.T) {
	script, err := Parse("blocked", `
boundary 3
obstacle 0 2
run "fff"
run "rf"
`)
	require.NoError(t, err)

	report, err := Run(context.Background(), script, nil)
	require.NoError(t, err)
	require.Len(t, report.Runs, 2)

	blocked := report.Runs[0]
	assert.False(t, blocked.OK)
	assert.Equal(t, 1, blocked.Executed)
	assert.Equal(t, engine.Position{X: 0, Y: 1}, blocked.Position)
	require.NotNil(t, blocked.Blocked)
	assert.Equal(t, engine.Position{X: 0, Y: 2}, *blocked.Blocked)
	assert.Contains(t, blocked.Error, "command 2")

	// The next run continues from (0,1)
	next := report.Runs[1]
	assert.True(t, next.OK)
	assert.Equal(t, engine.Position{X: 1, Y: 1}, next.Position)
	assert.Equal(t, engine.East, next.Direction)

	assert.Equal(t, 1, report.Failed())
}

func TestRun_CancelledContext(t *testing.T) {
	script, err := Parse("cancel", `run "f"`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, script, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Runs)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.rover")
	require.NoError(t, os.WriteFile(path, []byte(sampleMission), 0644))

	script, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, script.Runs(), 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.rover"))
	assert.Error(t, err)
}
