// Package service provides the business logic layer for Berserker.
//
// The service package implements:
//   - Session creation with a selectable rule preset
//   - Seat assignment on join
//   - Move processing bound to the requester's seat
//   - Host-only game reset
//   - Saving and reloading rule presets, deleting sessions
//
// Core Interfaces:
//
// GameService is the main service interface used by the WebSocket gateway,
// the HTTP API and the MCP surface. SessionManager is the session registry and
// ConfigManager resolves, saves and reloads rule presets.
//
// Architecture:
//
// The service sits between the transports and the rules engine. Every
// operation runs under one lock and follows a load, resolve, save cycle, so
// moves on a session are applied one at a time regardless of which transport
// delivered them.
//
// Usage:
//
//	sessions := session.NewManager(session.NewMemoryStore(), engine.DefaultRules())
//	configs, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessions, configs)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	joined, err := gameService.Join(ctx, info.ID, connID, "alice")
//	moved, err := gameService.Move(ctx, info.ID, connID, 2, 3)
//
// Errors:
//
// Rejections are reported as sentinel errors (engine.ErrCellOccupied,
// ErrNotASeatedPlayer, session.ErrSessionNotFound, ...) wrapped with context.
// Use errors.Is to classify them. A rejected operation never changes state.
package service
