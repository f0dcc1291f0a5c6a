package web

import (
	"errors"
	"net/http"

	"github.com/askhub/askhub/backend"
	"github.com/askhub/askhub/domain/nav"
)

// LoginPage renders the login form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "Log In")
	h.render(w, "login", data)
}

// LoginSubmit verifies the posted credentials and redirects home.
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		h.renderLoginError(w, r, "logins are handled by the platform backend", "")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "invalid form submission", "")
		return
	}
	email := r.PostFormValue("email")

	sess, err := h.auth.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrInvalidCredentials), errors.Is(err, backend.ErrAccountDeactivated):
			h.renderLoginError(w, r, err.Error(), email)
		default:
			h.logger.Error().Err(err).Msg("login failed")
			h.renderLoginError(w, r, "login failed, try again", email)
		}
		return
	}

	http.SetCookie(w, h.auth.Cookie(sess))
	http.Redirect(w, r, "/", http.StatusFound)
}

// RegisterPage renders the signup form.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "Sign Up")
	h.render(w, "register", data)
}

// RegisterSubmit creates a student account and logs it in.
func (h *Handler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		h.renderRegisterError(w, r, "signups are handled by the platform backend", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderRegisterError(w, r, "invalid form submission", nil)
		return
	}
	vals := map[string]string{
		"username": r.PostFormValue("username"),
		"email":    r.PostFormValue("email"),
	}

	sess, err := h.auth.Register(r.Context(), vals["username"], vals["email"], r.PostFormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrEmailTaken), errors.Is(err, backend.ErrInvalidInput):
			h.renderRegisterError(w, r, err.Error(), vals)
		default:
			h.logger.Error().Err(err).Msg("registration failed")
			h.renderRegisterError(w, r, "registration failed, try again", vals)
		}
		return
	}

	http.SetCookie(w, h.auth.Cookie(sess))
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout drops the session and redirects home.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.auth != nil {
		if cookie, err := r.Cookie(backend.SessionCookie); err == nil {
			h.auth.Logout(cookie.Value)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     backend.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) renderLoginError(w http.ResponseWriter, r *http.Request, message, email string) {
	data := h.newPageData(r, "Log In")
	data.Error = message
	data.FormVals = map[string]string{"email": email}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	h.renderStatus(w, "login", data)
}

func (h *Handler) renderRegisterError(w http.ResponseWriter, r *http.Request, message string, vals map[string]string) {
	data := h.newPageData(r, "Sign Up")
	data.Error = message
	data.FormVals = vals
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	h.renderStatus(w, "register", data)
}
