package service

import (
	"time"

	"github.com/wricardo/berserker/game/engine"
	"github.com/wricardo/berserker/game/session"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID        string            `json:"sessionId"`
	Rules     engine.Rules      `json:"rules"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Snapshot  *session.Snapshot `json:"snapshot"`
}

// JoinResult contains the outcome of a join
type JoinResult struct {
	Snapshot *session.Snapshot `json:"snapshot"`
	Seat     session.Seat      `json:"seat"`
	Color    engine.Color      `json:"color"`
	Seated   bool              `json:"seated"`
	Full     bool              `json:"full"` // both seats are taken
}

// MoveResult contains the result of an accepted placement
type MoveResult struct {
	Snapshot *session.Snapshot `json:"snapshot"`
	Placed   engine.Position   `json:"placed"`
	Color    engine.Color      `json:"color"`
	Pushes   []engine.Push     `json:"pushes"`
	Winner   *engine.Color     `json:"winner"`
}

// ConfigInfo provides information about a rule preset
type ConfigInfo struct {
	Filename     string `json:"filename,omitempty"`
	ConfigID     string `json:"config_id"` // The identifier to use for session creation
	Name         string `json:"name"`      // Display name
	Description  string `json:"description"`
	BoardSize    int    `json:"board_size"`
	InitialStash int    `json:"initial_stash"`
}
