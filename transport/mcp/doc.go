// Package mcp exposes the rover service as Model Context Protocol tools.
//
// The server runs in-process: each tool handler calls the RoverService
// directly and renders a short text report for the agent.
//
// MCP Tools:
//   - create_session: start a session in a named or default world
//   - list_sessions: list active sessions
//   - get_session: session details and world
//   - rover_state: position, heading, possible commands and a local 3x3 view
//   - execute_commands: run a command string (l, r, f, b), optionally after a reset
//   - reset_rover: return the rover to its starting cell
//   - command_history: paginated history of processed commands
//   - list_worlds: list available worlds
//   - describe_cell: inspect one cell relative to the rover
//   - rover_instructions: rules and legend
//
// Transport:
//
// Only stdio is supported. Logging must go to stderr while the server runs,
// since stdout carries the protocol.
//
// Usage:
//
//	srv := mcp.NewServer(roverService)
//	if err := srv.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
