package web_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/askhub/askhub/adapters/clock"
	"github.com/askhub/askhub/adapters/hasher"
	"github.com/askhub/askhub/adapters/idgen"
	"github.com/askhub/askhub/adapters/memory"
	"github.com/askhub/askhub/app"
	"github.com/askhub/askhub/backend"
	"github.com/askhub/askhub/domain/nav"
	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/domain/session"
	"github.com/askhub/askhub/web"
)

func testTree(t *testing.T) *nav.Tree {
	t.Helper()
	roots := []*nav.Node{
		{Path: "", Component: "home"},
		{Path: "auth", Children: []*nav.Node{
			{Path: "login", Component: "login"},
			{Path: "register", Component: "register"},
		}},
		{Path: "questions", Component: "questions", Children: []*nav.Node{
			{Path: "tagged/:tagname", Component: "questions-tagged"},
		}},
		{Path: "question/:id", Component: "question"},
		{Path: "tags", Component: "tags"},
		{Path: "search", Component: "search"},
		{Path: "users/:id/:name", Component: "profile"},
		{
			Path:      "ask",
			Component: "ask",
			Guards: []nav.Guard{
				nav.Authenticated(),
				nav.RoleIn(session.RoleStudent, session.RoleTeacher),
			},
		},
		{
			Path:      "user/saves/:id",
			Component: "saves",
			Guards: []nav.Guard{
				nav.Authenticated(),
				nav.RoleIn(session.RoleStudent, session.RoleTeacher),
				nav.Owner(),
			},
		},
		{
			Path:   "dashboard",
			Guards: []nav.Guard{nav.Authenticated(), nav.RoleIn(session.RoleAdmin)},
			Children: []*nav.Node{
				{Path: "", Component: "dashboard"},
				{Path: "users", Component: "dashboard-users"},
				{Path: "tags", Component: "dashboard-tags"},
				{Path: "questions", Component: "dashboard-questions"},
			},
		},
		{Path: "403", Component: "403"},
		{Path: "*", Component: "404"},
	}
	tree, err := nav.NewTree(roots, "/auth/login", "/403")
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	return tree
}

type fixture struct {
	server    *httptest.Server
	sessions  *backend.SessionStore
	users     *memory.Collection
	questions *memory.Collection
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	sessions := backend.NewSessionStore(clk)
	userStore := memory.NewUserStore()

	users := memory.NewCollection(
		resource.Record{ID: "7", Flags: map[string]bool{resource.FieldActive: true},
			Attrs: map[string]string{"username": "alice", "email": "alice@example.edu", "role": "student"}},
	)
	tags := memory.NewCollection(
		resource.Record{ID: "t1", Flags: map[string]bool{resource.FieldActive: true},
			Attrs: map[string]string{"name": "golang"}},
	)
	questions := memory.NewCollection(
		resource.Record{ID: "q1", Flags: map[string]bool{resource.FieldActive: true},
			Attrs: map[string]string{"title": "How do goroutines work?", "author_id": "7", "tags": "golang,concurrency", "views": "12"}},
		resource.Record{ID: "q2", Flags: map[string]bool{resource.FieldActive: false},
			Attrs: map[string]string{"title": "Hidden question", "author_id": "7", "tags": "golang", "views": "0"}},
		resource.Record{ID: "q3", Flags: map[string]bool{resource.FieldActive: true},
			Attrs: map[string]string{"title": "Normalizing schemas?", "author_id": "7", "tags": "sql", "views": "3"}},
	)

	auth := backend.NewAuthService(userStore, sessions, hasher.Fake{}, idgen.NewSequential("id"), clk, zerolog.Nop())
	if _, err := auth.Register(context.Background(), "alice", "alice@example.edu", "correct-horse"); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	h, err := web.NewHandler(web.Deps{
		Navigator: app.NewNavigator(testTree(t), zerolog.Nop(), nil),
		Sessions:  backend.NewCookieSource(sessions),
		Auth:      auth,
		Users:     users,
		Tags:      tags,
		Questions: questions,
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)

	return &fixture{server: srv, sessions: sessions, users: users, questions: questions}
}

// client that does not follow redirects, so tests can see them.
var noRedirect = &http.Client{
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

func (f *fixture) get(t *testing.T, path string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.server.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := noRedirect.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (f *fixture) post(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, f.server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := noRedirect.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	resp.Body.Close()
	return resp
}

func (f *fixture) cookieFor(role session.Role, userID string) *http.Cookie {
	sess := f.sessions.Create(userID, role)
	return &http.Cookie{Name: backend.SessionCookie, Value: sess.ID}
}

func TestHome_RendersActiveQuestions(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "How do goroutines work?") {
		t.Error("active question missing from home page")
	}
	if strings.Contains(body, "Hidden question") {
		t.Error("deactivated question served publicly")
	}
}

func TestTaggedQuestions_FiltersByTag(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/questions/tagged/golang")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "How do goroutines work?") {
		t.Error("golang-tagged question missing from the tagged page")
	}
	if strings.Contains(body, "Normalizing schemas?") {
		t.Error("question without the tag rendered on the tagged page")
	}
	if strings.Contains(body, "Hidden question") {
		t.Error("deactivated question rendered on the tagged page")
	}

	_, body = f.get(t, "/questions/tagged/sql")
	if !strings.Contains(body, "Normalizing schemas?") {
		t.Error("sql-tagged question missing from the tagged page")
	}
	if strings.Contains(body, "How do goroutines work?") {
		t.Error("golang question rendered on the sql tag page")
	}
}

func TestGuardedScreen_RedirectsGuestToLogin(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/ask", "/user/saves/7", "/dashboard", "/dashboard/users"} {
		resp, _ := f.get(t, path)
		if resp.StatusCode != http.StatusFound {
			t.Errorf("GET %s: status = %d, want 302", path, resp.StatusCode)
			continue
		}
		if loc := resp.Header.Get("Location"); loc != "/auth/login" {
			t.Errorf("GET %s: redirected to %q, want /auth/login", path, loc)
		}
	}
}

func TestDashboard_ForbiddenForStudent(t *testing.T) {
	f := newFixture(t)
	student := f.cookieFor(session.RoleStudent, "7")

	resp, _ := f.get(t, "/dashboard/users", student)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/403" {
		t.Fatalf("redirected to %q, want /403", loc)
	}
}

func TestDashboard_AdminSeesCollections(t *testing.T) {
	f := newFixture(t)
	admin := f.cookieFor(session.RoleAdmin, "1")

	resp, body := f.get(t, "/dashboard/users", admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "alice") {
		t.Error("user row missing from admin list")
	}

	resp, body = f.get(t, "/dashboard/questions", admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	// Admin moderation shows deactivated records too.
	if !strings.Contains(body, "Hidden question") {
		t.Error("deactivated question missing from moderation list")
	}
}

func TestAdminList_SelectedShowsDetail(t *testing.T) {
	f := newFixture(t)
	admin := f.cookieFor(session.RoleAdmin, "1")

	resp, body := f.get(t, "/dashboard/users?selected=7", admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Record 7") {
		t.Error("detail panel missing for selected record")
	}
	if !strings.Contains(body, "alice@example.edu") {
		t.Error("selected record attributes missing from detail panel")
	}

	// An id the collection never held selects nothing.
	_, body = f.get(t, "/dashboard/users?selected=999", admin)
	if strings.Contains(body, "Record 999") {
		t.Error("detail panel rendered for unknown record")
	}
}

func TestOwnership_OnlyOwnerReachesSaves(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.get(t, "/user/saves/7", f.cookieFor(session.RoleStudent, "7"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner: status = %d", resp.StatusCode)
	}

	resp, _ = f.get(t, "/user/saves/7", f.cookieFor(session.RoleStudent, "9"))
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("other user: status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/403" {
		t.Fatalf("other user redirected to %q, want /403", loc)
	}
}

func TestAdminDelete_RemovesRecordAndFlashes(t *testing.T) {
	f := newFixture(t)
	admin := f.cookieFor(session.RoleAdmin, "1")

	resp := f.post(t, "/dashboard/questions/q1/delete", url.Values{}, admin)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard/questions" {
		t.Fatalf("redirected to %q", loc)
	}

	items, err := f.questions.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if resource.IndexByID(items, "q1") >= 0 {
		t.Error("deleted record still in collection")
	}

	var flashed bool
	for _, c := range resp.Cookies() {
		if c.Name == "askhub_flash" && c.Value != "" {
			flashed = true
		}
	}
	if !flashed {
		t.Error("no flash notice set after delete")
	}
}

func TestAdminToggle_FlipsRecord(t *testing.T) {
	f := newFixture(t)
	admin := f.cookieFor(session.RoleAdmin, "1")

	resp := f.post(t, "/dashboard/users/7/toggle", url.Values{}, admin)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}

	items, err := f.users.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	i := resource.IndexByID(items, "7")
	if i < 0 {
		t.Fatal("record missing")
	}
	if items[i].Active() {
		t.Error("toggle did not deactivate the record")
	}
}

func TestAdminMutation_GuardedLikeTheScreen(t *testing.T) {
	f := newFixture(t)
	student := f.cookieFor(session.RoleStudent, "7")

	resp := f.post(t, "/dashboard/questions/q1/delete", url.Values{}, student)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/403" {
		t.Fatalf("redirected to %q, want /403", loc)
	}

	items, _ := f.questions.List(context.Background())
	if resource.IndexByID(items, "q1") < 0 {
		t.Error("guarded mutation still removed the record")
	}
}

func TestQuestionDetail(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/question/q1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "How do goroutines work?") {
		t.Error("question title missing")
	}

	// Deactivated questions are not served publicly.
	resp, _ = f.get(t, "/question/q2")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("hidden question: status = %d, want 404", resp.StatusCode)
	}
}

func TestUnknownPath_Renders404(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/no/such/page")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if !strings.Contains(body, "404") {
		t.Error("404 page not rendered")
	}
}

func TestLoginForm_EstablishesSession(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/auth/login", url.Values{
		"email":    {"alice@example.edu"},
		"password": {"correct-horse"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == backend.SessionCookie {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("no session cookie issued")
	}

	// A bad password re-renders the form instead of redirecting.
	resp = f.post(t, "/auth/login", url.Values{
		"email":    {"alice@example.edu"},
		"password": {"wrong"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("bad password: status = %d, want 422", resp.StatusCode)
	}
}

func TestAskSubmit_CreatesQuestionInBuiltinMode(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	sessions := backend.NewSessionStore(clk)
	questions := memory.NewQuestionStore()
	composer := backend.NewComposer(questions, idgen.NewSequential("q"), clk)

	h, err := web.NewHandler(web.Deps{
		Navigator: app.NewNavigator(testTree(t), zerolog.Nop(), nil),
		Sessions:  backend.NewCookieSource(sessions),
		Users:     memory.NewCollection(),
		Tags:      memory.NewCollection(),
		Questions: memory.NewCollection(),
		Composer:  composer,
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	sess := sessions.Create("7", session.RoleStudent)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/ask",
		strings.NewReader(url.Values{
			"title": {"What is a channel?"},
			"tags":  {"Golang, concurrency, golang"},
		}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: backend.SessionCookie, Value: sess.ID})

	resp, err := noRedirect.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}

	stored, err := questions.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Title != "What is a channel?" {
		t.Fatalf("stored questions = %+v", stored)
	}
	if stored[0].AuthorID != "7" {
		t.Fatalf("author = %q, want 7", stored[0].AuthorID)
	}
	// Tag names are trimmed, lowercased and deduplicated.
	if got := strings.Join(stored[0].Tags, ","); got != "golang,concurrency" {
		t.Fatalf("tags = %q, want golang,concurrency", got)
	}
	if loc := resp.Header.Get("Location"); loc != "/question/"+stored[0].ID {
		t.Fatalf("redirected to %q", loc)
	}
}

// A tree without an ask screen resolves the post to NotFound; the handler
// must answer 404 instead of redirecting to an empty location.
func TestAskSubmit_UnroutedRenders404(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	sessions := backend.NewSessionStore(clk)

	roots := []*nav.Node{{Path: "", Component: "home"}}
	tree, err := nav.NewTree(roots, "/auth/login", "/403")
	if err != nil {
		t.Fatal(err)
	}

	h, err := web.NewHandler(web.Deps{
		Navigator: app.NewNavigator(tree, zerolog.Nop(), nil),
		Sessions:  backend.NewCookieSource(sessions),
		Users:     memory.NewCollection(),
		Tags:      memory.NewCollection(),
		Questions: memory.NewCollection(),
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	sess := sessions.Create("7", session.RoleStudent)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/ask",
		strings.NewReader(url.Values{"title": {"orphaned"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: backend.SessionCookie, Value: sess.ID})

	resp, err := noRedirect.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "" {
		t.Fatalf("unexpected redirect to %q", loc)
	}
}
