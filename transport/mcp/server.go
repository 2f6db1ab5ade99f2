package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mars-rover/game/engine"
	"github.com/wricardo/mars-rover/game/service"
)

const (
	serverName    = "Mars Rover"
	serverVersion = "1.0.0"
)

// Server exposes a RoverService as MCP tools
type Server struct {
	svc       service.RoverService
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by the given service
func NewServer(svc service.RoverService) *Server {
	s := &Server{svc: svc}
	s.initMCPServer()
	return s
}

func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mars Rover simulator. Create a session, then drive the rover with
command strings made of l (turn left), r (turn right), f (forward) and b (backward).
The grid wraps at its edges. A command string stops at the first obstacle and the
rover stays on the last safe cell. Call rover_instructions for the full rules.`),
	)
	s.registerTools()
}

func (s *Server) registerTools() {
	sessionIDProp := map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new rover session in a world",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"world_name": map[string]interface{}{
					"type":        "string",
					"description": "World to load (optional, uses the default world when empty)",
				},
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active rover sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a rover session, including its world",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, s.handleGetSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rover_state",
		Description: "Get the rover's position, heading and surroundings",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, s.handleRoverState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "execute_commands",
		Description: "Send a command string to the rover. l and r turn in place, f and b move one cell. Other characters are ignored. Execution stops at the first obstacle; earlier commands stay applied.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
				"commands": map[string]interface{}{
					"type":        "string",
					"description": "Command characters, e.g. \"ffrff\"",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Return the rover to its starting cell before executing",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "What you expect these commands to achieve; kept in the command history",
				},
			},
			Required: []string{"session_id", "commands"},
		},
	}, s.handleExecuteCommands)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_rover",
		Description: "Return the rover to its world's starting cell and heading",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, s.handleResetRover)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "command_history",
		Description: "Get the processed command history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "asc (oldest first) or desc (newest first, default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleCommandHistory)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_worlds",
		Description: "List available worlds",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListWorlds)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe a grid cell: whether it is inside the grid, blocked by an obstacle, or occupied by the rover.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (east is positive)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (north is positive)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, s.handleDescribeCell)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rover_instructions",
		Description: "Get the rover's rules and command reference",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleRoverInstructions)
}

// MCPServer returns the underlying MCP server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input closes
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Tool handlers

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	worldName := request.GetString("world_name", "")

	info, err := s.svc.CreateSession(ctx, worldName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nWorld: %s\n\n%s", info.ID, info.WorldName, formatState(info.State))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.svc.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", len(sessions))
	for _, info := range sessions {
		fmt.Fprintf(&b, "- %s (World: %s, Rover: %s %s, Commands: %d, Created: %s)\n",
			info.ID, info.WorldName, info.State.Position, info.State.Direction.Name(),
			info.CommandCount, info.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := s.svc.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(info)), nil
}

func (s *Server) handleRoverState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.svc.GetState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatState(state)), nil
}

func (s *Server) handleExecuteCommands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	commands, err := request.RequireString("commands")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := service.ExecuteOptions{
		Reset:  request.GetBool("reset", false),
		Intent: strings.TrimSpace(request.GetString("intent", "")),
	}

	result, err := s.svc.Execute(ctx, sessionID, commands, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatCommandResult(sessionID, result)), nil
}

func (s *Server) handleResetRover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.svc.Reset(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Rover reset to its starting cell\n\n" + formatState(state)), nil
}

func (s *Server) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := service.HistoryOptions{
		Page:  request.GetInt("page", 1),
		Limit: request.GetInt("limit", 20),
		Order: request.GetString("order", "desc"),
	}

	history, err := s.svc.GetHistory(ctx, sessionID, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(history)), nil
}

func (s *Server) handleListWorlds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	worlds, err := s.svc.ListWorlds(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Worlds:\n\n")
	for _, w := range worlds {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Boundary: %d, Obstacles: %d\n\n",
			w.WorldID, w.Name, w.Description, w.Boundary, w.ObstacleCount)
	}
	if len(worlds) == 0 {
		b.WriteString("No world files found; sessions use the built-in default world.\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := request.RequireInt("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := request.RequireInt("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cell, err := s.svc.DescribeCell(ctx, sessionID, engine.Position{X: x, Y: y})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatCell(cell)), nil
}

func (s *Server) handleRoverInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Mars Rover - Instructions

THE GRID:
• Square grid centred on (0,0); a world with boundary B spans -B..B on both axes
• North is +y, east is +x
• Obstacles occupy single cells and never move

COMMANDS:
• l - turn left 90 degrees in place
• r - turn right 90 degrees in place
• f - move one cell in the facing direction
• b - move one cell opposite to the facing direction, keeping the heading
• Any other character is ignored

WRAPPING:
• Moving past an edge brings the rover in on the opposite edge
  (x > B becomes -B, x < -B becomes B, and the same for y)
• Obstacles are checked on the cell the rover steps to before wrapping,
  so an obstacle placed on an edge cell can still be reached from the other side

OBSTACLES:
• A command string stops at the first move into an obstacle
• Commands before it stay applied; the rover keeps its last safe cell and heading
• The result reports which command stopped and the blocked cell

TOOLS:
• execute_commands - run a command string; set reset=true to start over first
• rover_state - position, heading, possible commands and a local 3x3 view
• describe_cell - check a single cell before moving into it
• command_history - every processed command, including blocked ones

LOCAL VIEW LEGEND (north at the top):
• R - rover
• # - obstacle
• . - open ground
• ~ - outside the grid (a move there wraps)
`

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nWorld: %s\nCreated: %s\nCommands processed: %d\n",
		info.ID, info.WorldName, info.CreatedAt.Format("2006-01-02 15:04:05"), info.CommandCount)
	if info.World != nil {
		fmt.Fprintf(&b, "Start: %s facing %s\n", info.World.Start, info.World.Facing.Name())
		if info.World.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", info.World.Description)
		}
	}
	b.WriteString("\n")
	b.WriteString(formatState(info.State))
	return b.String()
}

func formatState(state *engine.State) string {
	if state == nil {
		return "No rover state available\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rover at %s facing %s\n", state.Position, state.Direction.Name())
	size := 2*state.Boundary + 1
	fmt.Fprintf(&b, "Grid: %dx%d (boundary %d)\n", size, size, state.Boundary)
	fmt.Fprintf(&b, "Obstacles: %d\n", len(state.Obstacles))

	radar := engine.NewRadar(state.Boundary, state.Position, state.Direction, state.Obstacles...)
	b.WriteString("Possible commands: ")
	b.WriteString(strings.Join(service.PossibleCommands(radar), ","))
	b.WriteString("\nLocal 3x3:\n")
	for _, row := range service.LocalView3x3(radar) {
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func formatCommandResult(sessionID string, result *service.CommandResult) string {
	var b strings.Builder

	boundary := 0
	if result.State != nil {
		boundary = result.State.Boundary
	}
	fmt.Fprintf(&b, "Session: %s • Boundary: %d\n", sessionID, boundary)

	if result.Success {
		b.WriteString("✓ ")
	} else {
		b.WriteString("✗ ")
	}
	b.WriteString(result.Message)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Executed %d/%d commands", result.Executed, result.Requested)
	if result.Ignored > 0 {
		fmt.Fprintf(&b, " (%d ignored characters)", result.Ignored)
	}
	b.WriteString("\n")
	if result.Reset {
		b.WriteString("Rover was reset before executing\n")
	}
	if result.Intent != "" {
		fmt.Fprintf(&b, "Intent: %s\n", result.Intent)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: command %d (%s): %s\n", result.StoppedOnCommand, result.StopCommand, result.StopReasonCode)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for i, step := range result.Steps {
			b.WriteString(formatStepLine(i+1, step))
		}
	}

	if result.Blocked != nil {
		fmt.Fprintf(&b, "\nBlocked: obstacle at %s; rover stayed at %s facing %s\n",
			result.Blocked, result.EndPos, result.EndFacing.Name())
	}

	if len(result.PossibleCommands) > 0 {
		b.WriteString("\nPossible commands: ")
		b.WriteString(strings.Join(result.PossibleCommands, ","))
		b.WriteString("\n")
	}
	if len(result.LocalView3x3) > 0 {
		b.WriteString("Local 3x3:\n")
		for _, row := range result.LocalView3x3 {
			b.WriteString(row)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatStepLine(idx int, step engine.Step) string {
	status := "✓"
	if !step.OK {
		status = "✗"
	}
	switch {
	case !step.OK && step.Blocked != nil:
		return fmt.Sprintf("%d) %s at %s blocked by %s %s\n", idx, step.Command, step.From, step.Blocked, status)
	case step.Turned:
		return fmt.Sprintf("%d) %s at %s now facing %s %s\n", idx, step.Command, step.From, step.Facing.Name(), status)
	default:
		return fmt.Sprintf("%d) %s %s→%s facing %s %s\n", idx, step.Command, step.From, step.To, step.Facing.Name(), status)
	}
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command History (Page %d/%d, Total: %d):\n\n",
		history.Page, history.TotalPages, history.TotalCommands)

	for _, entry := range history.Commands {
		status := "✓"
		if !entry.OK {
			status = "✗"
		}
		line := fmt.Sprintf("#%d %s %s→%s facing %s %s", entry.Seq, entry.Command, entry.From, entry.To, entry.Facing.Name(), status)
		if entry.Blocked != nil {
			line += fmt.Sprintf(" (obstacle at %s)", entry.Blocked)
		}
		if entry.Intent != "" {
			line += fmt.Sprintf(" [intent: %s]", entry.Intent)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if history.HasNext {
		fmt.Fprintf(&b, "\nMore commands on page %d\n", history.Page+1)
	}
	return b.String()
}

func formatCell(cell *service.CellInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell at %s:\n", cell.Position)
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "Inside grid: %v\n", cell.InBounds)
	fmt.Fprintf(&b, "Obstacle: %v\n", cell.Obstacle)
	fmt.Fprintf(&b, "Rover here: %v\n", cell.Rover)
	fmt.Fprintf(&b, "Distance from rover: %d\n", cell.Distance)

	switch {
	case cell.Rover:
		b.WriteString("This is the rover's current cell.\n")
	case cell.Obstacle:
		b.WriteString("Moving into this cell stops the command string.\n")
	case !cell.InBounds:
		b.WriteString("Outside the grid: a move toward it wraps to the opposite edge.\n")
	default:
		b.WriteString("Open ground: safe to move here.\n")
	}
	return b.String()
}
