// Package web provides the SSR front server. Every page request resolves
// through the route evaluator; guarded screens redirect to the login or
// forbidden surfaces before any rendering happens. All templates are
// embedded in the binary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/askhub/askhub/adapters/metrics"
	"github.com/askhub/askhub/app"
	"github.com/askhub/askhub/backend"
	"github.com/askhub/askhub/domain/nav"
	"github.com/askhub/askhub/ports"
)

//go:embed templates/*
var assets embed.FS

// componentFunc renders one named screen for an allowed navigation.
type componentFunc func(w http.ResponseWriter, r *http.Request, d nav.Decision)

// Handler is the front server.
type Handler struct {
	templates  map[string]*template.Template
	navigator  *app.Navigator
	sessions   ports.SessionSource
	auth       *backend.AuthService // nil in remote mode
	users      ports.Collection
	tags       ports.Collection
	questions  ports.Collection
	composer   *backend.Composer  // nil in remote mode
	metrics    *metrics.Collector // optional
	components map[string]componentFunc
	logger     zerolog.Logger
}

// Deps contains dependencies for the front server.
type Deps struct {
	Navigator *app.Navigator
	Sessions  ports.SessionSource
	Auth      *backend.AuthService // nil when an external backend owns logins
	Users     ports.Collection
	Tags      ports.Collection
	Questions ports.Collection
	Composer  *backend.Composer
	Metrics   *metrics.Collector
	Logger    zerolog.Logger
}

// NewHandler creates the front server handler.
func NewHandler(deps Deps) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		templates: tmpl,
		navigator: deps.Navigator,
		sessions:  deps.Sessions,
		auth:      deps.Auth,
		users:     deps.Users,
		tags:      deps.Tags,
		questions: deps.Questions,
		composer:  deps.Composer,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With().Str("service", "web").Logger(),
	}
	h.components = h.componentTable()
	return h, nil
}

// Router returns the front server router. Form actions are declared
// explicitly; every GET falls through to the evaluator dispatch.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/login", h.LoginSubmit)
	r.Post("/auth/register", h.RegisterSubmit)
	r.Post("/auth/logout", h.Logout)

	r.Post("/ask", h.AskSubmit)

	r.Post("/dashboard/{collection}/{id}/delete", h.AdminDelete)
	r.Post("/dashboard/{collection}/{id}/toggle", h.AdminToggle)

	r.Get("/*", h.Dispatch)

	return r
}

// Dispatch resolves the request path through the route evaluator and acts
// on the decision. Guards run before any component; a denied navigation
// never touches page data.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Session(r)
	d := h.navigator.Evaluate(r.URL.Path, sess)

	switch d.Kind {
	case nav.DecisionRender:
		fn, ok := h.components[d.Node.Component]
		if !ok {
			h.logger.Error().Str("component", d.Node.Component).Msg("no renderer for component")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		fn(w, r, d)
	case nav.DecisionRedirectLogin, nav.DecisionRedirectForbidden:
		http.Redirect(w, r, d.RedirectTo, http.StatusFound)
	case nav.DecisionNotFound:
		h.renderNotFound(w, r)
	}
}

func (h *Handler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	data := h.newPageData(r, "Page Not Found")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	h.renderStatus(w, "404", data)
}

// render executes a page template inside the base layout.
func (h *Handler) render(w http.ResponseWriter, name string, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderStatus(w, name, data)
}

func (h *Handler) renderStatus(w http.ResponseWriter, name string, data PageData) {
	tmpl, ok := h.templates[name]
	if !ok {
		h.logger.Error().Str("template", name).Msg("template not found")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("template render error")
	}
}

// parseTemplates builds one template per page, each combined with the base
// layout.
func parseTemplates() (map[string]*template.Template, error) {
	layout, err := fs.ReadFile(assets, "templates/layouts/base.html")
	if err != nil {
		return nil, fmt.Errorf("read base layout: %w", err)
	}

	pages, err := fs.Glob(assets, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		content, err := fs.ReadFile(assets, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/pages/"), ".html")
		tmpl, err := template.New(name).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("parse layout for %s: %w", name, err)
		}
		if _, err := tmpl.Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}
