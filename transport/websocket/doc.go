// Package websocket provides the real-time gateway for Berserker.
//
// The websocket package implements:
//   - Connection lifecycle (upgrade, read/write pumps, ping/pong)
//   - Decoding of inbound events into a closed set of event types
//   - Per-session subscription and state fan-out
//   - Chat relay
//
// Architecture:
//
// A central Hub owns every connection and runs a single event loop. Read
// pumps forward raw frames to the loop; the loop decodes each one, applies it
// through the game service and broadcasts the result before it looks at the
// next frame. Write pumps only move bytes.
//
// Message Protocol:
//
// Every frame is a JSON envelope {"type": ..., "payload": ...}.
//
// Inbound:
//   - join  {sessionId, name}       subscribe and claim a seat
//   - move  {sessionId, row, col}   place a pawn for the sender's seat
//   - reset {sessionId}             restart the game (host only)
//   - chat  {sessionId, author, text}
//
// The legacy names joinGame, makeMove and chatMessage and the gameId field are
// accepted as aliases. joinGame may carry the bare session ID as its payload.
//
// Outbound:
//   - state  the session snapshot, sent to every subscriber after a change
//   - chat   {author, text}
//
// Rejected events (illegal moves, wrong turn, observers, unknown sessions)
// produce no reply. Malformed frames are logged and dropped.
//
// Usage:
//
//	hub := websocket.NewHub(gameService, logger, allowedOrigins)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", hub.ServeWS)
//
// Connection Lifecycle:
//
// 1. Client connects and receives a connection ID
// 2. Client sends join; the first two connections take the host and guest seats
// 3. Moves and resets are broadcast to the session's subscribers
// 4. Disconnection drops the subscription; the seat stays bound
package websocket
