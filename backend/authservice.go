package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/askhub/askhub/domain/session"
	"github.com/askhub/askhub/ports"
)

// Auth failure sentinels. Callers branch on these to pick a user-facing
// message; anything else is an internal fault.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("username, email and a password of at least 8 characters are required")
)

// AuthService establishes and tears down sessions against the user store.
// Both the envelope API and the web login forms drive it.
type AuthService struct {
	users    ports.UserStore
	sessions *SessionStore
	hasher   ports.Hasher
	idgen    ports.IDGenerator
	clock    ports.Clock
	logger   zerolog.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(users ports.UserStore, sessions *SessionStore, h ports.Hasher, idgen ports.IDGenerator, clock ports.Clock, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   h,
		idgen:    idgen,
		clock:    clock,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Login verifies credentials and creates a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}
	if !u.Active {
		return nil, ErrAccountDeactivated
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	sess := s.sessions.Create(u.ID, u.Role)
	s.logger.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("login")
	return sess, nil
}

// Register creates a student account and logs it in.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := ports.User{
		ID:           s.idgen.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         session.RoleStudent,
		Active:       true,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sess := s.sessions.Create(u.ID, u.Role)
	s.logger.Info().Str("user_id", u.ID).Msg("registered")
	return sess, nil
}

// Logout drops a session by id. Unknown ids are a no-op.
func (s *AuthService) Logout(id string) {
	s.sessions.Delete(id)
}

// Cookie returns the session cookie for an established session.
func (s *AuthService) Cookie(sess *Session) *http.Cookie {
	return sessionCookie(sess)
}
