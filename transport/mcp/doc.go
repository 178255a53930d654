// Package mcp provides the Model Context Protocol interface for the 2048 game.
//
// The package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for board operations
//   - Formatting of boards and move results as plain text
//
// The Client is a thin proxy: every tool calls the REST API, so agents,
// browsers and the terminal see the same sessions.
//
// MCP Tools:
//   - create_session: Create a session, optionally with a config_id and seed
//   - list_sessions: List all active sessions
//   - get_session: Session details including board size and win tile
//   - game_state: Current board, score, status and possible moves
//   - move: Slide every tile in one direction
//   - bulk_move: Up to 50 slides, stopping when the game ends
//   - reset_game: New game in the same session
//   - move_history: Paged move history
//   - list_configs: Available board variants
//   - game_instructions: Full rules and strategy tips
//
// Transport Modes:
//   - Stdio: ServeStdio on the MCPServer returned by GetMCPServer
//   - HTTP: the server's /mcp endpoint passes request bodies to HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
