package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/wricardo/berserker/game/engine"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSessionID = errors.New("invalid session ID")
)

// maxSessionIDLength caps client-chosen session IDs
const maxSessionIDLength = 64

// Manager is the session registry
type Manager struct {
	store    Store
	defaults engine.Rules
	now      func() time.Time
}

// NewManager creates a registry on store. A nil store selects a MemoryStore.
// Sessions created without explicit rules use defaults.
func NewManager(store Store, defaults engine.Rules) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		store:    store,
		defaults: defaults,
		now:      time.Now,
	}
}

// Create creates a session with a fresh UUID. Nil rules select the defaults.
func (m *Manager) Create(ctx context.Context, rules *engine.Rules) (*Session, error) {
	return m.create(ctx, uuid.NewString(), rules)
}

// Get retrieves a session by ID
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return m.store.Load(ctx, id)
}

// GetOrCreate retrieves a session, creating it with the default rules if the
// ID is unknown. An empty ID always creates a new session.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return m.Create(ctx, nil)
	}

	sess, err := m.Get(ctx, id)
	if err == nil {
		return sess, nil
	}
	if errors.Is(err, ErrSessionNotFound) {
		return m.create(ctx, id, nil)
	}
	return nil, err
}

// Reset replaces the session's state with a fresh game. Seats are preserved.
func (m *Manager) Reset(ctx context.Context, id string) (*Session, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fresh := sess.Reset(m.now())
	if err := m.store.Save(ctx, fresh); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return fresh, nil
}

// Save stores sess and stamps its update time
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = m.now()
	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return m.store.Delete(ctx, id)
}

// Count returns the number of stored sessions
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.store.Count(ctx)
}

func (m *Manager) create(ctx context.Context, id string, rules *engine.Rules) (*Session, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	r := m.defaults
	if rules != nil {
		r = *rules
	}
	if err := engine.ValidateRules(&r); err != nil {
		return nil, err
	}

	sess := New(id, r, m.now())
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > maxSessionIDLength {
		return ErrInvalidSessionID
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return ErrInvalidSessionID
		}
	}
	return nil
}
