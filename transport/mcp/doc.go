// Package mcp provides a Model Context Protocol surface for Berserker.
//
// The mcp package implements a thin MCP server whose tools proxy the HTTP API,
// so AI agents can set up games and inspect them. Moves are played by humans
// over WebSocket and are not exposed as tools.
//
// MCP Tools:
//   - create_session: Create a new game session, optionally with a rule preset
//   - game_state: Board, stashes, seats, turn and winner of a session
//   - preview_move: Resolve a hypothetical placement locally and show the
//     pushes and outcome without changing the game
//   - list_configs: List available rule presets
//   - game_rules: Explain the rules
//
// Transport:
//
// The server is mounted at /mcp on the HTTP server, or served over stdio by
// the stdio-mcp command.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:3001")
//	server.ServeStdio(client.GetMCPServer())
package mcp
