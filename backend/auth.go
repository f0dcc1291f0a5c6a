package backend

import (
	"encoding/json"
	"errors"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Login verifies credentials and establishes a session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.authFail(w, err)
		return
	}
	http.SetCookie(w, sessionCookie(sess))
	ok(w, authResponse{UserID: sess.UserID, Role: string(sess.Role)})
}

// Register creates a student account and logs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.authFail(w, err)
		return
	}
	http.SetCookie(w, sessionCookie(sess))
	ok(w, authResponse{UserID: sess.UserID, Role: string(sess.Role)})
}

// SessionInfo resolves the session cookie to its facts. Front servers in
// remote mode poll this to read the session a platform login established.
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		fail(w, http.StatusUnauthorized, "no session")
		return
	}
	sess := h.sessions.Get(cookie.Value)
	if sess == nil {
		fail(w, http.StatusUnauthorized, "no session")
		return
	}
	ok(w, authResponse{UserID: sess.UserID, Role: string(sess.Role)})
}

// Logout drops the session, if any. Always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.auth.Logout(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	ok(w, nil)
}

func (h *Handler) authFail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrAccountDeactivated):
		fail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrEmailTaken):
		fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidInput):
		fail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("auth operation failed")
		fail(w, http.StatusInternalServerError, "internal error")
	}
}

func sessionCookie(sess *Session) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
