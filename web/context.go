package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/askhub/askhub/domain/nav"
	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/domain/session"
)

// PageData holds common data for all pages.
type PageData struct {
	Title       string
	CurrentPath string
	Session     session.Session
	IsAdmin     bool
	Params      map[string]string
	Flash       *FlashMessage

	// Page-specific payloads. Only the fields a page reads are set.
	Records  []resource.Record
	Record   *resource.Record
	Loading  bool
	Section  string
	Query    string
	Error    string
	FormVals map[string]string
}

// FlashMessage is a one-time notification carried across a redirect.
type FlashMessage struct {
	Type    string `json:"type"` // "success" or "error"
	Message string `json:"message"`
}

const flashCookie = "askhub_flash"

// setFlash stores a one-time notification in a cookie.
func setFlash(w http.ResponseWriter, f FlashMessage) {
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// popFlash reads and clears the flash cookie.
func popFlash(w http.ResponseWriter, r *http.Request) *FlashMessage {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var f FlashMessage
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

// newPageData creates base page data from the request.
func (h *Handler) newPageData(r *http.Request, title string) PageData {
	sess := h.sessions.Session(r)
	return PageData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Session:     sess,
		IsAdmin:     sess.Role == session.RoleAdmin,
	}
}

// pageData builds page data for an allowed navigation, consuming any
// pending flash.
func (h *Handler) pageData(w http.ResponseWriter, r *http.Request, d nav.Decision, title string) PageData {
	data := h.newPageData(r, title)
	data.Params = d.Params
	data.Flash = popFlash(w, r)
	return data
}

// flashNotifier adapts the Notifier port onto the flash cookie. The last
// notice of a request wins, which matches one mutation per form post.
type flashNotifier struct {
	w http.ResponseWriter
}

func (n flashNotifier) Success(message string) {
	setFlash(n.w, FlashMessage{Type: "success", Message: message})
}

func (n flashNotifier) Error(message string) {
	setFlash(n.w, FlashMessage{Type: "error", Message: message})
}
