// Package service provides the business logic layer for the Mars rover simulator.
//
// The service package implements:
//   - Multi-session rover management
//   - World loading and saving through a WorldManager
//   - Command execution with per-step traces
//   - Cumulative command history with pagination
//
// Core Interfaces:
//
// RoverService is the main service interface providing high-level rover operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// WorldManager loads, lists and saves world configurations.
//
// Architecture:
//
// The service layer sits between the front ends (CLI, MCP over stdio) and the
// engine. A single mutex serializes every call that drives a rover, so an
// engine instance never sees two command strings at once. Each session owns
// one rover built from its world; Reset rebuilds that rover from the world
// while keeping the session's history.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	worldMgr := config.NewManager("configs", "default")
//	roverService := service.NewRoverService(sessionMgr, worldMgr, 1000)
//
//	info, err := roverService.CreateSession(ctx, "crater")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := roverService.Execute(ctx, info.ID, "ffrff", service.ExecuteOptions{})
//	if err == nil && !result.Success {
//		log.Printf("stopped on command %d: %s", result.StoppedOnCommand, result.Message)
//	}
//
// Partial failure:
//
// A command string that runs into an obstacle is not an error from Execute.
// The commands before the obstacle stay committed and the result carries the
// 1-based index of the failing command, the blocked cell and the final state.
// Errors are reserved for unknown sessions, cancelled contexts and command
// strings longer than the configured limit (ErrTooManyCommands).
package service
