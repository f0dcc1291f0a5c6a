package backend

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/askhub/askhub/domain/session"
	"github.com/askhub/askhub/ports"
)

// SessionCookie is the cookie the backend issues at login and the session
// source reads on every navigation.
const SessionCookie = "askhub_session"

// sessionTTL bounds how long a login stays valid.
const sessionTTL = 24 * time.Hour

// Session is one established login.
type Session struct {
	ID        string
	UserID    string
	Role      session.Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore manages logins in memory.
type SessionStore struct {
	mu       sync.RWMutex
	clock    ports.Clock
	sessions map[string]*Session
}

// NewSessionStore creates a new session store.
func NewSessionStore(clock ports.Clock) *SessionStore {
	return &SessionStore{
		clock:    clock,
		sessions: make(map[string]*Session),
	}
}

// Create establishes a session for the user.
func (s *SessionStore) Create(userID string, role session.Role) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	sess := &Session{
		ID:        generateSessionID(),
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns a live session, or nil when unknown or expired.
func (s *SessionStore) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || sess.ExpiresAt.Before(s.clock.Now().UTC()) {
		return nil
	}
	return sess
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed")
	}
	return "sess_" + hex.EncodeToString(b)
}

// CookieSource reads the session fact from the request cookie. It is the
// ports.SessionSource the front server consumes; requests without a live
// session resolve to the anonymous session.
type CookieSource struct {
	sessions *SessionStore
}

// NewCookieSource creates a session source over the store.
func NewCookieSource(sessions *SessionStore) *CookieSource {
	return &CookieSource{sessions: sessions}
}

// Session returns the session facts for one request.
func (c *CookieSource) Session(r *http.Request) session.Session {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return session.Anonymous()
	}
	sess := c.sessions.Get(cookie.Value)
	if sess == nil {
		return session.Anonymous()
	}
	return session.Session{
		Authenticated: true,
		Role:          sess.Role,
		UserID:        sess.UserID,
	}
}

// Ensure interface compliance.
var _ ports.SessionSource = (*CookieSource)(nil)
