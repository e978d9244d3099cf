package service

import (
	"context"
	"errors"

	"github.com/wricardo/berserker/game/engine"
	"github.com/wricardo/berserker/game/session"
)

var (
	ErrNotASeatedPlayer  = errors.New("connection holds no seat")
	ErrUnauthorizedReset = errors.New("only the host may reset")
	ErrConfigNotFound    = errors.New("config not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrConfigReadOnly    = errors.New("presets are read-only")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	GetSnapshot(ctx context.Context, sessionID string) (*session.Snapshot, error)
	SessionCount(ctx context.Context) (int, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Join(ctx context.Context, sessionID, connID, name string) (*JoinResult, error)
	Move(ctx context.Context, sessionID, connID string, row, col int) (*MoveResult, error)
	Reset(ctx context.Context, sessionID, connID string) (*session.Snapshot, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configID string) (*engine.Rules, error)
	SaveConfig(ctx context.Context, configID string, rules *engine.Rules) (*ConfigInfo, error)
	RefreshConfigs(ctx context.Context) error
}

// SessionManager defines session registry operations
type SessionManager interface {
	Create(ctx context.Context, rules *engine.Rules) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	GetOrCreate(ctx context.Context, id string) (*session.Session, error)
	Reset(ctx context.Context, id string) (*session.Session, error)
	Save(ctx context.Context, sess *session.Session) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ConfigManager handles rule preset loading and saving
type ConfigManager interface {
	LoadConfig(name string) (*engine.Rules, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.Rules
	SaveConfig(name string, rules *engine.Rules) error
	RefreshCache() error
}
