// Package api provides the HTTP endpoints for Berserker.
//
// The api package implements:
//   - Session creation and snapshot lookup
//   - Rule preset listing, saving and reloading
//   - The WebSocket upgrade endpoint
//   - A health check
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session, optional body {"config_id": "classic"}
//   - GET /api/sessions/{id} - Current snapshot of a session
//   - GET /api/sessions/{id}/info - Session metadata, rules and snapshot
//   - DELETE /api/sessions/{id} - Remove a session
//   - GET /create-game - Create a session, legacy response {"gameId": ...}
//
// Configuration:
//   - GET /api/configs - List available rule presets
//   - GET /api/configs/{name} - Get one preset
//   - POST /api/configs - Save a preset, body {"config_id", "name", "board_size", "initial_stash", ...}
//   - POST /api/configs/refresh - Re-read presets from disk
//
// Realtime:
//   - GET /ws - WebSocket upgrade, see package websocket
//
// Operations:
//   - GET /api/health - {"status": "healthy", "sessions": N}
//
// Moves, resets and chat travel over the WebSocket only.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, logger)
//	http.ListenAndServe(":3001", server)
//
// Error Handling:
//
// Errors are returned as JSON with an appropriate HTTP status code:
//
//	{
//	  "error": "error message"
//	}
package api
