package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/askhub/askhub/app"
	"github.com/askhub/askhub/domain/nav"
	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/ports"
)

// DashboardPage renders the admin overview with collection counts.
func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request, d nav.Decision) {
	data := h.pageData(w, r, d, "Dashboard")
	data.FormVals = map[string]string{}
	for name, api := range map[string]ports.Collection{
		"users":     h.users,
		"tags":      h.tags,
		"questions": h.questions,
	} {
		records, err := api.List(r.Context())
		if err != nil {
			data.FormVals[name] = "?"
			continue
		}
		data.FormVals[name] = strconv.Itoa(len(records))
	}
	h.render(w, "dashboard", data)
}

// AdminListPage returns a renderer for one admin collection screen. The
// controller lives for the request, mirroring a view mount/unmount cycle.
func (h *Handler) AdminListPage(name string) componentFunc {
	return func(w http.ResponseWriter, r *http.Request, d nav.Decision) {
		data := h.pageData(w, r, d, "Manage "+name)

		// Load failures surface on this response, not the next one.
		notes := &captureNotifier{}
		ctrl := app.NewListController(name, h.collection(name), notes, h.logger, h.metrics)
		defer ctrl.Close()
		ctrl.Load(r.Context())

		// ?selected=<id> projects one loaded record into the detail panel.
		if id := r.URL.Query().Get("selected"); id != "" {
			loaded := ctrl.State()
			if i := resource.IndexByID(loaded.Items, id); i >= 0 {
				ctrl.Select(loaded.Items[i])
			}
		}

		state := ctrl.State()
		data.Records = state.Items
		data.Loading = state.Loading
		data.Record = state.Selected
		data.Section = name
		if data.Flash == nil && notes.last != nil {
			data.Flash = notes.last
		}
		h.render(w, "admin_list", data)
	}
}

// captureNotifier keeps the last notice in memory for same-response display.
type captureNotifier struct {
	last *FlashMessage
}

func (n *captureNotifier) Success(message string) {
	n.last = &FlashMessage{Type: "success", Message: message}
}

func (n *captureNotifier) Error(message string) {
	n.last = &FlashMessage{Type: "error", Message: message}
}

// AdminDelete handles the delete form post for one admin collection row.
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	h.adminMutation(w, r, func(ctrl *app.ListController, id string) {
		ctrl.Delete(r.Context(), id)
	})
}

// AdminToggle handles the activate/deactivate form post.
func (h *Handler) AdminToggle(w http.ResponseWriter, r *http.Request) {
	h.adminMutation(w, r, func(ctrl *app.ListController, id string) {
		ctrl.Toggle(r.Context(), id, resource.FieldActive)
	})
}

// adminMutation runs one list mutation under the same guard decision the
// corresponding screen has, so form posts cannot bypass the route tree.
func (h *Handler) adminMutation(w http.ResponseWriter, r *http.Request, op func(*app.ListController, string)) {
	name := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	screen := "/dashboard/" + name
	sess := h.sessions.Session(r)
	d := h.navigator.Evaluate(screen, sess)
	if d.Kind != nav.DecisionRender {
		switch d.Kind {
		case nav.DecisionRedirectLogin, nav.DecisionRedirectForbidden:
			http.Redirect(w, r, d.RedirectTo, http.StatusFound)
		default:
			h.renderNotFound(w, r)
		}
		return
	}

	ctrl := h.newController(name, w)
	defer ctrl.Close()
	ctrl.Load(r.Context())
	op(ctrl, id)

	http.Redirect(w, r, screen, http.StatusFound)
}

// newController builds a request-scoped list controller whose notices land
// in the flash cookie.
func (h *Handler) newController(name string, w http.ResponseWriter) *app.ListController {
	return app.NewListController(name, h.collection(name), flashNotifier{w: w}, h.logger, h.metrics)
}

// collection maps a screen name to its collection API. Names outside the
// dashboard subtree never reach here: the route tree rejects them first.
func (h *Handler) collection(name string) ports.Collection {
	switch name {
	case "users":
		return h.users
	case "tags":
		return h.tags
	default:
		return h.questions
	}
}
