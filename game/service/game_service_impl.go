package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wricardo/berserker/game/engine"
	"github.com/wricardo/berserker/game/session"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.Mutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new session using the given preset, or the default
// preset when configID is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, configID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rules *engine.Rules
	if configID != "" {
		loaded, err := s.loadConfig(configID)
		if err != nil {
			return nil, err
		}
		rules = loaded
	} else {
		rules = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create(ctx, rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return sessionInfo(sess), nil
}

// GetSnapshot returns the public state of a session
func (s *gameServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return sess.Snapshot(), nil
}

// SessionCount returns the number of known sessions
func (s *gameServiceImpl) SessionCount(ctx context.Context) (int, error) {
	return s.sessions.Count(ctx)
}

// DeleteSession removes a session from the registry. Connections still
// subscribed to it see later moves rejected; a new join recreates it.
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// Join seats connID in the session, creating the session if it is unknown.
// Connections beyond the second join as observers.
func (s *gameServiceImpl) Join(ctx context.Context, sessionID, connID, name string) (*JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("join session %s: %w", sessionID, err)
	}

	seat, seated := sess.Seats.Assign(connID, name)
	if seated {
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
	}

	return &JoinResult{
		Snapshot: sess.Snapshot(),
		Seat:     seat,
		Color:    seat.Color(),
		Seated:   seated,
		Full:     sess.Seats.Full(),
	}, nil
}

// Move places a pawn for the color of connID's seat
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, connID string, row, col int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("move in session %s: %w", sessionID, err)
	}

	seat := sess.Seats.SeatOf(connID)
	if seat == session.SeatNone {
		return nil, ErrNotASeatedPlayer
	}

	result, err := engine.ResolvePlacement(sess.State, row, col, seat.Color())
	if err != nil {
		return nil, fmt.Errorf("move (%d,%d) by %s: %w", row, col, seat.Color(), err)
	}

	sess.State = result.State
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	return &MoveResult{
		Snapshot: sess.Snapshot(),
		Placed:   result.Placed,
		Color:    result.Color,
		Pushes:   result.Pushes,
		Winner:   result.Winner,
	}, nil
}

// Reset starts a fresh game in the session. Only the host may reset.
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID, connID string) (*session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reset session %s: %w", sessionID, err)
	}

	if sess.Seats.SeatOf(connID) != session.SeatHost {
		return nil, ErrUnauthorizedReset
	}

	fresh, err := s.sessions.Reset(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	return fresh.Snapshot(), nil
}

// ListConfigs returns all available rule presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig resolves a rule preset by ID
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configID string) (*engine.Rules, error) {
	return s.loadConfig(configID)
}

// SaveConfig validates and stores a rule preset under configID
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configID string, rules *engine.Rules) (*ConfigInfo, error) {
	if rules == nil {
		return nil, fmt.Errorf("%w: rules are required", ErrInvalidConfig)
	}
	if err := engine.ValidateRules(rules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.configs.SaveConfig(configID, rules); err != nil {
		return nil, fmt.Errorf("save config %s: %w", configID, err)
	}

	return &ConfigInfo{
		ConfigID:     configID,
		Name:         rules.Name,
		Description:  rules.Description,
		BoardSize:    rules.BoardSize,
		InitialStash: rules.InitialStash,
	}, nil
}

// RefreshConfigs re-reads presets from disk
func (s *gameServiceImpl) RefreshConfigs(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.configs.RefreshCache(); err != nil {
		return fmt.Errorf("refresh configs: %w", err)
	}
	return nil
}

func (s *gameServiceImpl) loadConfig(configID string) (*engine.Rules, error) {
	rules, err := s.configs.LoadConfig(configID)
	if err == nil {
		return rules, nil
	}

	// Provide helpful error message with available options
	if available, listErr := s.configs.ListConfigs(); listErr == nil && len(available) > 0 {
		ids := make([]string, 0, len(available))
		for _, cfg := range available {
			ids = append(ids, cfg.ConfigID)
		}
		return nil, fmt.Errorf("%w: '%s' (available: %v): %v", ErrConfigNotFound, configID, ids, err)
	}
	return nil, fmt.Errorf("%w: '%s': %v", ErrConfigNotFound, configID, err)
}

func sessionInfo(sess *session.Session) *SessionInfo {
	return &SessionInfo{
		ID:        sess.ID,
		Rules:     sess.Rules,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
		Snapshot:  sess.Snapshot(),
	}
}

// IsRejection reports whether err is an ordinary rule or authorization
// rejection rather than an infrastructure failure
func IsRejection(err error) bool {
	for _, target := range []error{
		engine.ErrGameOver,
		engine.ErrOutOfBounds,
		engine.ErrCellOccupied,
		engine.ErrStashEmpty,
		engine.ErrNotYourTurn,
		ErrNotASeatedPlayer,
		ErrUnauthorizedReset,
		session.ErrSessionNotFound,
		session.ErrInvalidSessionID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
