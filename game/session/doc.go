// Package session provides in-memory session management for the 2048 game
// server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session expiry for idle games
//
// Core Types:
//
// Manager is the session manager that handles all session operations.
// Sessions (service.Session) each own one game engine together with the
// config they were created from and their creation and last access times.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs generated from crypto/rand. Lookups are
// case-insensitive. Generated IDs are retried until they are unused.
//
// Concurrency:
//
// The manager guards its map with a sync.RWMutex. It does not lock the
// engines themselves; the game service serializes engine access.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config, engine.WithSeed(7))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//
//	// Drop sessions idle for more than an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
