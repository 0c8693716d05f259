// Package session keeps the server-side record of logged-in users,
// keyed by opaque tokens handed to clients in a cookie.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Erespul/flashcards.github.io/internal/models"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session_token"

type entry struct {
	user    models.SessionUser
	expires time.Time
}

// Manager stores active sessions in memory. Sessions expire after the
// configured TTL; expired entries are dropped on lookup.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]entry
}

// NewManager returns a Manager whose sessions live for ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]entry),
	}
}

// Create registers a new session for user and returns its token.
func (m *Manager) Create(user models.SessionUser) string {
	token := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = entry{user: user, expires: time.Now().Add(m.ttl)}
	return token
}

// Get returns the user bound to token. Expired or unknown tokens
// report false.
func (m *Manager) Get(token string) (models.SessionUser, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[token]
	if !ok {
		return models.SessionUser{}, false
	}
	if time.Now().After(e.expires) {
		delete(m.sessions, token)
		return models.SessionUser{}, false
	}
	return e.user, true
}

// Delete removes the session for token, if any.
func (m *Manager) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
