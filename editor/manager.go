package editor

import (
	"log"
	"sync"
	"time"
)

// SessionManager routes HTTP requests to live sessions and expires sessions
// that have been idle past the configured TTL.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewSessionManager creates a manager expiring idle sessions after ttl.
func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Put registers a session under its ID.
func (m *SessionManager) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

// Get returns the session with the given ID, or nil.
func (m *SessionManager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// Remove unregisters the session without cancelling it.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of registered sessions.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// PruneExpired cancels and drops idle or terminal sessions. Returns the
// number of sessions removed.
func (m *SessionManager) PruneExpired() int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.Phase() == PhaseTerminal || s.LastTouched().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Cancel()
	}
	if len(stale) > 0 {
		log.Printf("editor: pruned %d expired session(s)", len(stale))
	}
	return len(stale)
}

// StartPruning launches a background loop pruning on the given interval
// until stop is closed.
func (m *SessionManager) StartPruning(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.PruneExpired()
			case <-stop:
				return
			}
		}
	}()
}
