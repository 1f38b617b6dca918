// Package session holds the per-browsing-session state the dashboard keeps
// between render passes: the group navigator and the asset-id to name
// cache. State is an explicit object handed into each render call, not
// ambient globals; the manager owns its lifecycle and evicts idle sessions.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tradepulse/internal/navigation"
)

// Session is the state for one browsing session. Render passes for one
// session are serialized by the caller, so individual fields need no lock;
// the manager guards only its own registry.
type Session struct {
	ID        string
	Navigator *navigation.Navigator

	mu         sync.RWMutex
	assetNames map[int]string
	lastSeen   time.Time
}

// AssetName returns the cached display name for an asset id.
func (s *Session) AssetName(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.assetNames[id]
	return name, ok
}

// SetAssetNames replaces the cached asset catalog.
func (s *Session) SetAssetNames(names map[int]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assetNames = names
}

// Manager tracks live sessions keyed by id and evicts ones idle past the
// TTL. The zero value is not usable; use NewManager.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a session manager with the given idle TTL.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the session for id, creating a fresh one when the id is
// empty or unknown. The second return reports whether the session already
// existed.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			s.lastSeen = m.now()
			return s, true
		}
	}

	s := &Session{
		ID:        uuid.New().String(),
		Navigator: navigation.New(0),
		lastSeen:  m.now(),
	}
	m.sessions[s.ID] = s
	return s, false
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.sessions)
}

// sweepLocked drops sessions idle past the TTL. Caller holds m.mu.
func (m *Manager) sweepLocked() {
	if m.ttl <= 0 {
		return
	}
	cutoff := m.now().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
