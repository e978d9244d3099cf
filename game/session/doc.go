// Package session provides the session registry for Berserker.
//
// The session package implements:
//   - The Session type binding game state, rule preset and seats
//   - Host/guest seat assignment for the first two joiners
//   - A registry (Manager) with get-or-create and reset semantics
//   - Pluggable storage: an in-process MemoryStore and a RedisStore
//
// Core Types:
//
// Manager is the registry. It owns session identifiers and delegates storage
// to a Store. Session holds the authoritative GameState for one game and the
// Seats binding connections to colors.
//
// Session Identifiers:
//
// Sessions created without an explicit ID receive a random UUID v4. Clients
// may also join an arbitrary ID, which creates the session on first use.
//
// Concurrency:
//
// Both stores are safe for concurrent use. A Session value itself is not
// synchronized; callers serialize load-mutate-save cycles (the game service
// holds a lock for the whole cycle).
//
// Usage:
//
//	manager := session.NewManager(session.NewMemoryStore(), engine.DefaultRules())
//
//	sess, err := manager.Create(ctx, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	seat, seated := sess.Seats.Assign(connID, "alice")
//	err = manager.Save(ctx, sess)
package session
