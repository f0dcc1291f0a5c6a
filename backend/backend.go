// Package backend provides the built-in envelope API: the same contract the
// platform's real backend serves, so the front server can run
// self-contained. Every response is a {success, data|message} envelope.
package backend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/domain/session"
	"github.com/askhub/askhub/ports"
)

// Handler serves the envelope API.
type Handler struct {
	auth      *AuthService
	users     ports.UserStore
	tags      ports.TagStore
	questions ports.QuestionStore
	sessions  *SessionStore
	logger    zerolog.Logger
}

// Deps contains dependencies for the backend handler.
type Deps struct {
	Auth      *AuthService
	Users     ports.UserStore
	Tags      ports.TagStore
	Questions ports.QuestionStore
	Sessions  *SessionStore
	Logger    zerolog.Logger
}

// NewHandler creates a new backend API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		auth:      deps.Auth,
		users:     deps.Users,
		tags:      deps.Tags,
		questions: deps.Questions,
		sessions:  deps.Sessions,
		logger:    deps.Logger.With().Str("service", "backend").Logger(),
	}
}

// Router returns the backend API router, mounted under /api.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/login", h.Login)
	r.Post("/auth/register", h.Register)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/session", h.SessionInfo)

	// Admin collections
	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)

		r.Get("/users", h.ListUsers)
		r.Delete("/users/{id}", h.DeleteUser)
		r.Post("/users/{id}/toggle", h.ToggleUser)

		r.Get("/tags", h.ListTags)
		r.Delete("/tags/{id}", h.DeleteTag)
		r.Post("/tags/{id}/toggle", h.ToggleTag)

		r.Get("/questions", h.ListQuestions)
		r.Delete("/questions/{id}", h.DeleteQuestion)
		r.Post("/questions/{id}/toggle", h.ToggleQuestion)
	})

	return r
}

// requireAdmin rejects requests whose session is not an admin login. The
// route evaluator already gates the screens; the API enforces the same rule
// for direct callers.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			writeEnvelope(w, http.StatusUnauthorized, envelope{Message: "login required"})
			return
		}
		sess := h.sessions.Get(cookie.Value)
		if sess == nil {
			writeEnvelope(w, http.StatusUnauthorized, envelope{Message: "login required"})
			return
		}
		if sess.Role != session.RoleAdmin {
			writeEnvelope(w, http.StatusForbidden, envelope{Message: "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// -----------------------------------------------------------------------------
// Envelope helpers
// -----------------------------------------------------------------------------

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func ok(w http.ResponseWriter, data interface{}) {
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: data})
}

func fail(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, envelope{Success: false, Message: message})
}

type toggleRequest struct {
	Field string `json:"field"`
}

func decodeToggleField(r *http.Request) (string, error) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", errors.New("invalid JSON body")
	}
	if req.Field == "" {
		return resource.FieldActive, nil
	}
	if req.Field != resource.FieldActive {
		return "", errors.New("no such field")
	}
	return req.Field, nil
}
