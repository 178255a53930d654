// Package websocket provides WebSocket transport for the 2048 game server.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasting after every change
//   - Move and reset commands sent by browser clients
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns every
// connection. Registration, broadcasts and client counts all pass through
// channels to the Run goroutine, so the client map is never shared. Each
// connection has a read pump and a write pump.
//
// Message Protocol:
//
// Messages are JSON-encoded:
//   - Incoming: {"action": "move", "direction": "up"} or {"action": "reset"}
//   - Outgoing: {"session_id": "abc1", "event": "state_update", "game_state": {...}}
//
// Commands are handed to the hub's CommandHandler. Their state changes come
// back as broadcasts to every client of the session; failures are sent to
// the issuing client only as an "error" event.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetCommandHandler(server)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Broadcasts never block the caller. When the hub queue is full the message
// is dropped, and a client whose own buffer is full is disconnected.
package websocket
