package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for lookups of unknown session IDs.
var ErrSessionNotFound = errors.New("chat session not found")

// Manager owns the live chat sessions, keyed by ID. Sessions live for the
// page session; there is no persistence across restarts.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// resolveDelay is how long a placeholder stays pending before the
	// resolution tick may replace it with the fixed answer.
	resolveDelay time.Duration
}

// NewManager creates an empty session manager.
func NewManager(resolveDelay time.Duration) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		resolveDelay: resolveDelay,
	}
}

// Create starts a new session seeded with the system greeting.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString())

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	return s
}

// Get looks up a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Apply dispatches an event to the identified session.
func (m *Manager) Apply(id string, ev Event) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	return s.Apply(ev, m.resolveDelay)
}

// ResolveDue scans all sessions and resolves every pending placeholder whose
// deadline has passed. Called from the recurring scheduler tick; returns the
// number of resolutions performed.
func (m *Manager) ResolveDue(now time.Time) int {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	resolved := 0
	for _, s := range sessions {
		if s.resolveDue(now) {
			resolved++
		}
	}
	return resolved
}
