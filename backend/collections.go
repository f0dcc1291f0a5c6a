package backend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/askhub/askhub/ports"
)

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

type userRow struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Role     string `json:"role"`
	Active   bool   `json:"is_activate"`
}

// ListUsers returns every account.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list users failed")
		fail(w, http.StatusInternalServerError, "internal error")
		return
	}
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Avatar:   u.Avatar,
			Role:     string(u.Role),
			Active:   u.Active,
		})
	}
	ok(w, rows)
}

// DeleteUser removes an account.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.users.Delete(r.Context(), id); err != nil {
		h.storeFail(w, err, "delete user")
		return
	}
	ok(w, nil)
}

// ToggleUser inverts a boolean field on an account.
func (h *Handler) ToggleUser(w http.ResponseWriter, r *http.Request) {
	if _, err := decodeToggleField(r); err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.storeFail(w, err, "toggle user")
		return
	}
	if err := h.users.SetActive(r.Context(), id, !u.Active); err != nil {
		h.storeFail(w, err, "toggle user")
		return
	}
	ok(w, nil)
}

// -----------------------------------------------------------------------------
// Tags
// -----------------------------------------------------------------------------

type tagRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"is_activate"`
}

// ListTags returns every tag.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list tags failed")
		fail(w, http.StatusInternalServerError, "internal error")
		return
	}
	rows := make([]tagRow, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, tagRow{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Active:      t.Active,
		})
	}
	ok(w, rows)
}

// DeleteTag removes a tag.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tags.Delete(r.Context(), id); err != nil {
		h.storeFail(w, err, "delete tag")
		return
	}
	ok(w, nil)
}

// ToggleTag inverts a boolean field on a tag.
func (h *Handler) ToggleTag(w http.ResponseWriter, r *http.Request) {
	if _, err := decodeToggleField(r); err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	t, err := h.tags.Get(r.Context(), id)
	if err != nil {
		h.storeFail(w, err, "toggle tag")
		return
	}
	if err := h.tags.SetActive(r.Context(), id, !t.Active); err != nil {
		h.storeFail(w, err, "toggle tag")
		return
	}
	ok(w, nil)
}

// -----------------------------------------------------------------------------
// Questions
// -----------------------------------------------------------------------------

type questionRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	AuthorID string `json:"author_id"`
	Tags     string `json:"tags"` // comma-joined tag names
	Views    string `json:"views"`
	Active   bool   `json:"is_activate"`
}

// ListQuestions returns every question, hidden ones included. This listing
// backs the moderation screen, not the public question feed.
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questions.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list questions failed")
		fail(w, http.StatusInternalServerError, "internal error")
		return
	}
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, questionRow{
			ID:       q.ID,
			Title:    q.Title,
			AuthorID: q.AuthorID,
			Tags:     strings.Join(q.Tags, ","),
			Views:    strconv.Itoa(q.Views),
			Active:   q.Active,
		})
	}
	ok(w, rows)
}

// DeleteQuestion removes a question.
func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.questions.Delete(r.Context(), id); err != nil {
		h.storeFail(w, err, "delete question")
		return
	}
	ok(w, nil)
}

// ToggleQuestion inverts a boolean field on a question.
func (h *Handler) ToggleQuestion(w http.ResponseWriter, r *http.Request) {
	if _, err := decodeToggleField(r); err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	q, err := h.questions.Get(r.Context(), id)
	if err != nil {
		h.storeFail(w, err, "toggle question")
		return
	}
	if err := h.questions.SetActive(r.Context(), id, !q.Active); err != nil {
		h.storeFail(w, err, "toggle question")
		return
	}
	ok(w, nil)
}

// storeFail maps a store error to an envelope.
func (h *Handler) storeFail(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, ports.ErrNotFound) {
		fail(w, http.StatusNotFound, "record not found")
		return
	}
	h.logger.Error().Err(err).Str("op", op).Msg("store operation failed")
	fail(w, http.StatusInternalServerError, "internal error")
}
