package session

import (
	"time"

	"github.com/wricardo/berserker/game/engine"
)

// Session is one game room: the authoritative state plus its seats
type Session struct {
	ID        string            `json:"id"`
	Rules     engine.Rules      `json:"rules"`
	State     *engine.GameState `json:"state"`
	Seats     Seats             `json:"seats"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New creates a session in the initial state for rules
func New(id string, rules engine.Rules, now time.Time) *Session {
	return &Session{
		ID:        id,
		Rules:     rules,
		State:     engine.NewGameState(rules),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reset returns a fresh session with the same ID, rules and seats
func (s *Session) Reset(now time.Time) *Session {
	fresh := New(s.ID, s.Rules, s.CreatedAt)
	fresh.Seats = s.Seats.clone()
	fresh.UpdatedAt = now
	return fresh
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	c := *s
	c.State = s.State.Clone()
	c.Seats = s.Seats.clone()
	return &c
}

// PlayerView is the public view of a seated player
type PlayerView struct {
	Name string `json:"name"`
}

// Players is the public view of both seats
type Players struct {
	Host  *PlayerView `json:"host"`
	Guest *PlayerView `json:"guest"`
}

// Snapshot is the state broadcast to every subscriber of a session
type Snapshot struct {
	SessionID     string        `json:"sessionId"`
	Board         *engine.Board `json:"board"`
	Stash         engine.Stash  `json:"stash"`
	CurrentPlayer engine.Color  `json:"currentPlayer"`
	Winner        *engine.Color `json:"winner"`
	Players       Players       `json:"players"`
}

// Snapshot builds the public view of the session. Connection IDs are omitted.
func (s *Session) Snapshot() *Snapshot {
	state := s.State.Clone()
	snap := &Snapshot{
		SessionID:     s.ID,
		Board:         state.Board,
		Stash:         state.Stash,
		CurrentPlayer: state.Turn,
		Winner:        state.Winner,
	}
	if s.Seats.Host != nil {
		snap.Players.Host = &PlayerView{Name: s.Seats.Host.Name}
	}
	if s.Seats.Guest != nil {
		snap.Players.Guest = &PlayerView{Name: s.Seats.Guest.Name}
	}
	return snap
}
