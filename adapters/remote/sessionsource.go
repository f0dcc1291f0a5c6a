package remote

import (
	"net/http"

	"github.com/askhub/askhub/domain/session"
	"github.com/askhub/askhub/ports"
)

// SessionSource resolves the session cookie against the backend's
// /auth/session endpoint. Any failure resolves to the anonymous session;
// navigation fails closed, never open.
type SessionSource struct {
	client *Client
	cookie string
}

// NewSessionSource creates a session source resolving the named cookie.
func NewSessionSource(client *Client, cookie string) *SessionSource {
	return &SessionSource{client: client, cookie: cookie}
}

type sessionEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	} `json:"data"`
}

// Session returns the session facts for one request.
func (s *SessionSource) Session(r *http.Request) session.Session {
	cookie, err := r.Cookie(s.cookie)
	if err != nil {
		return session.Anonymous()
	}

	var env sessionEnvelope
	headers := map[string]string{"Cookie": s.cookie + "=" + cookie.Value}
	if err := s.client.RequestWithHeaders(r.Context(), http.MethodGet, "/auth/session", headers, nil, &env); err != nil {
		return session.Anonymous()
	}
	if !env.Success || env.Data.UserID == "" {
		return session.Anonymous()
	}

	return session.Session{
		Authenticated: true,
		Role:          session.ParseRole(env.Data.Role),
		UserID:        env.Data.UserID,
	}
}

var _ ports.SessionSource = (*SessionSource)(nil)
