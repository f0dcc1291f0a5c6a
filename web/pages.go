package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/askhub/askhub/backend"
	"github.com/askhub/askhub/domain/nav"
	"github.com/askhub/askhub/domain/resource"
)

// componentTable maps the component names the route tree declares to their
// renderers. A tree naming a component missing here is a deployment error
// surfaced at dispatch time.
func (h *Handler) componentTable() map[string]componentFunc {
	return map[string]componentFunc{
		"home":             h.HomePage,
		"questions":        h.QuestionsPage,
		"questions-tagged": h.QuestionsTaggedPage,
		"question":         h.QuestionPage,
		"tags":             h.TagsPage,
		"search":           h.SearchPage,
		"profile":          h.ProfilePage,
		"ask":              h.AskPage,
		"login":            h.LoginPage,
		"register":         h.RegisterPage,
		"saves":            h.SavesPage,
		"settings":         h.SettingsPage("profile"),
		"settings-profile": h.SettingsPage("profile"),
		"settings-account": h.SettingsPage("account"),
		"settings-prefs":   h.SettingsPage("preferences"),

		"dashboard":           h.DashboardPage,
		"dashboard-users":     h.AdminListPage("users"),
		"dashboard-tags":      h.AdminListPage("tags"),
		"dashboard-questions": h.AdminListPage("questions"),

		"403": h.ForbiddenPage,
		"404": h.WildcardPage,
	}
}

// activeOnly filters a collection listing down to publicly served records.
func activeOnly(records []resource.Record) []resource.Record {
	out := make([]resource.Record, 0, len(records))
	for _, rec := range records {
		if rec.Active() {
			out = append(out, rec)
		}
	}
	return out
}

func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "askhub")
	records, err := h.questions.List(r.Context())
	if err != nil {
		data.Error = "questions are unavailable right now"
	} else {
		data.Records = activeOnly(records)
	}
	h.render(w, "home", data)
}

func (h *Handler) QuestionsPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "Questions")
	records, err := h.questions.List(r.Context())
	if err != nil {
		data.Error = "questions are unavailable right now"
	} else {
		data.Records = activeOnly(records)
	}
	h.render(w, "questions", data)
}

func (h *Handler) QuestionsTaggedPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "Questions tagged "+d.Params["tagname"])
	records, err := h.questions.List(r.Context())
	if err != nil {
		data.Error = "questions are unavailable right now"
	} else {
		data.Records = taggedWith(activeOnly(records), d.Params["tagname"])
	}
	h.render(w, "questions", data)
}

// taggedWith keeps the records whose comma-joined tags attribute contains
// the given tag name.
func taggedWith(records []resource.Record, name string) []resource.Record {
	var out []resource.Record
	for _, rec := range records {
		for _, tag := range strings.Split(rec.Attr("tags"), ",") {
			if strings.TrimSpace(tag) == name {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

func (h *Handler) QuestionPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	records, err := h.questions.List(r.Context())
	if err != nil {
		data := h.pageData(w, r, d, "Question")
		data.Error = "questions are unavailable right now"
		h.render(w, "question", data)
		return
	}
	idx := resource.IndexByID(records, d.Params["id"])
	if idx < 0 || !records[idx].Active() {
		h.renderNotFound(w, r)
		return
	}
	rec := records[idx]
	data := h.pageData(w, r, d, rec.Attr("title"))
	data.Record = &rec
	h.render(w, "question", data)
}

func (h *Handler) TagsPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "Tags")
	records, err := h.tags.List(r.Context())
	if err != nil {
		data.Error = "tags are unavailable right now"
	} else {
		data.Records = activeOnly(records)
	}
	h.render(w, "tags", data)
}

func (h *Handler) SearchPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "Search")
	data.Query = r.URL.Query().Get("q")
	if data.Query != "" {
		records, err := h.questions.List(r.Context())
		if err != nil {
			data.Error = "search is unavailable right now"
		} else {
			needle := strings.ToLower(data.Query)
			for _, rec := range activeOnly(records) {
				if strings.Contains(strings.ToLower(rec.Attr("title")), needle) {
					data.Records = append(data.Records, rec)
				}
			}
		}
	}
	h.render(w, "search", data)
}

func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	records, err := h.users.List(r.Context())
	if err != nil {
		data := h.pageData(w, r, d, "Profile")
		data.Error = "profiles are unavailable right now"
		h.render(w, "profile", data)
		return
	}
	idx := resource.IndexByID(records, d.Params["id"])
	if idx < 0 || !records[idx].Active() {
		h.renderNotFound(w, r)
		return
	}
	rec := records[idx]
	data := h.pageData(w, r, d, rec.Attr("username"))
	data.Record = &rec
	h.render(w, "profile", data)
}

func (h *Handler) AskPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "Ask a Question")
	h.render(w, "ask", data)
}

// AskSubmit posts a new question. The same guard decision that protects
// the ask screen protects the post.
func (h *Handler) AskSubmit(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Session(r)
	d := h.navigator.Evaluate("/ask", sess)
	if d.Kind != nav.DecisionRender {
		switch d.Kind {
		case nav.DecisionRedirectLogin, nav.DecisionRedirectForbidden:
			http.Redirect(w, r, d.RedirectTo, http.StatusFound)
		default:
			h.renderNotFound(w, r)
		}
		return
	}
	if h.composer == nil {
		setFlash(w, FlashMessage{Type: "error", Message: "posting questions is handled by the platform backend"})
		http.Redirect(w, r, "/ask", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		setFlash(w, FlashMessage{Type: "error", Message: "invalid form submission"})
		http.Redirect(w, r, "/ask", http.StatusFound)
		return
	}

	id, err := h.composer.Compose(r.Context(), sess.UserID, r.PostFormValue("title"),
		strings.Split(r.PostFormValue("tags"), ","))
	if err != nil {
		if errors.Is(err, backend.ErrEmptyTitle) {
			setFlash(w, FlashMessage{Type: "error", Message: err.Error()})
		} else {
			h.logger.Error().Err(err).Msg("compose question failed")
			setFlash(w, FlashMessage{Type: "error", Message: "posting the question failed, try again"})
		}
		http.Redirect(w, r, "/ask", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/question/"+id, http.StatusFound)
}

func (h *Handler) SavesPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "Saved Questions")
	h.render(w, "saves", data)
}

// SettingsPage returns a renderer for one settings section.
func (h *Handler) SettingsPage(section string) componentFunc {
	return func(w http.ResponseWriter, r *http.Request, d nav.Decision) {
		data := h.pageData(w, r, d, "Settings")
		data.Section = section
		h.render(w, "settings", data)
	}
}

func (h *Handler) ForbiddenPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "Access Denied")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	h.renderStatus(w, "403", data)
}

// WildcardPage serves the catch-all route as a 404 surface.
func (h *Handler) WildcardPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	h.renderNotFound(w, r)
}
