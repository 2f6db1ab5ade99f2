// Package session provides session management for the Mars rover simulator.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - Unique session ID generation
//   - Session expiry for idle sessions
//
// Core Types:
//
// Manager is the session manager that handles all session operations.
// Each service.Session owns one rover built from its world plus the
// command history the service records for it.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive. Generated IDs are checked against the live set, so two
// sessions never share an ID.
//
// Concurrency:
//
// The manager guards its map with a RWMutex. It does not serialize access to
// a session's rover; the service layer does that.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", world)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	go manager.RunCleanup(ctx, time.Minute, 24*time.Hour)
//
// Sessions are not persisted; they end with the process.
package session
