package v1

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultSessionTTL is the sliding session lifetime.
const DefaultSessionTTL = 30 * time.Minute

// SessionManager issues and validates opaque session tokens. Sessions
// live in memory only; a daemon restart logs everyone out.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionManager creates a manager with the given sliding TTL.
// A non-positive ttl falls back to DefaultSessionTTL.
func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a new session token.
func (m *SessionManager) Create() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.sessions[token] = m.now().Add(m.ttl)
	return token, nil
}

// Validate reports whether the token names a live session and, if so,
// slides its expiry forward.
func (m *SessionManager) Validate(token string) bool {
	if token == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.sessions[token]
	if !ok {
		return false
	}
	if m.now().After(expiry) {
		delete(m.sessions, token)
		return false
	}
	m.sessions[token] = m.now().Add(m.ttl)
	return true
}

// Destroy invalidates the token. Unknown tokens are a no-op.
func (m *SessionManager) Destroy(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// sweepLocked drops expired sessions. Called opportunistically on
// Create so the map does not grow unbounded under failed logins.
func (m *SessionManager) sweepLocked() {
	now := m.now()
	for token, expiry := range m.sessions {
		if now.After(expiry) {
			delete(m.sessions, token)
		}
	}
}
