// Package mcp exposes slide2048 to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, and the JSON response is rendered as plain text with the board
// drawn one row per line.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state: board, score and status
//   - move: single slide (up/down/left/right)
//   - bulk_move: up to 50 slides, stopping when the game ends
//   - restart_game: fresh board with the same rules
//   - hint: legal moves and the best immediate merge
//   - list_configs: available presets
//   - game_instructions: rules and strategy notes
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the /mcp route hands JSON-RPC bodies to GetMCPServer().HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
