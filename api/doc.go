// Package api provides HTTP REST API handlers for the 2048 game server.
//
// The api package implements:
//   - RESTful endpoints for session and game operations
//   - Configuration listing, lookup and upload
//   - WebSocket upgrade handling and WebSocket command dispatch
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "classic", "seed": 7})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=n)
//   - GET /api/sessions/unified - Several sessions side by side (?sessionIds=a,b or ?configName=x)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current board
//   - POST /api/sessions/{id}/move - {"direction": "left", "reset": false}
//   - POST /api/sessions/{id}/bulk-move - {"moves": ["left", "up"], "reset": false}
//   - POST /api/sessions/{id}/reset - Start a new game in the session
//   - GET /api/sessions/{id}/history - Move history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List board variants
//   - GET /api/configs/{name} - Get one variant
//   - POST /api/configs - Save a variant (?config_id=name, defaults to the config name)
//
// Other:
//   - GET /api/health - Liveness check
//   - GET /ws?session={id} - WebSocket stream of state updates
//
// Every request that changes a board is followed by a state_update broadcast
// to the session's WebSocket clients.
//
// Error Handling:
//
// Errors are returned as JSON with a status derived from the error:
//
//	{"error": "session ab12: session not found"}
//
// Unknown sessions and configs answer 404, invalid directions and configs
// 400, and everything else 500.
package api
