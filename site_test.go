package site

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/irudium/site/views"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "site.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	a := &App{
		Config: Config{
			Site: views.SiteConfig{
				Name: "Irudium",
				URL:  "http://localhost:3000",
			},
			SessionSecret: "test-secret",
			PostCacheTTL:  time.Minute,
		},
		Echo:      echo.New(),
		staticDir: t.TempDir(),
	}
	a.Store = store
	a.Cache = NewPostCache(store, a.Config.PostCacheTTL)
	a.sessions = a.newSessionStore()
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.likeLocks = newPostLocks()
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func doRequest(a *App, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHomeRendersPublishedPosts(t *testing.T) {
	a := newTestApp(t)
	if _, err := a.Store.SavePost(views.Post{Title: "Launch Story", Published: true}); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	rec := doRequest(a, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Launch Story") {
		t.Error("home page should show the published post")
	}
}

func TestHomeHidesDrafts(t *testing.T) {
	a := newTestApp(t)
	if _, err := a.Store.SavePost(views.Post{Title: "Secret Draft"}); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	rec := doRequest(a, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Secret Draft") {
		t.Error("drafts must not appear on the home page")
	}
}

func TestPostPageShowsOnlyApprovedComments(t *testing.T) {
	a := newTestApp(t)
	post, err := a.Store.SavePost(views.Post{Title: "Commented", Published: true})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	approved, err := a.Store.InsertComment(views.Comment{PostID: post.ID, AuthorName: "A", Content: "approved-comment-body"})
	if err != nil {
		t.Fatalf("InsertComment failed: %v", err)
	}
	if err := a.Store.SetCommentApproved(approved.ID, true); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := a.Store.InsertComment(views.Comment{PostID: post.ID, AuthorName: "B", Content: "pending-comment-body"}); err != nil {
		t.Fatalf("InsertComment failed: %v", err)
	}

	rec := doRequest(a, http.MethodGet, post.Link())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "approved-comment-body") {
		t.Error("approved comment missing from the page")
	}
	if strings.Contains(body, "pending-comment-body") {
		t.Error("pending comment leaked to readers")
	}
}

func TestPostPageIncrementsViews(t *testing.T) {
	a := newTestApp(t)
	post, err := a.Store.SavePost(views.Post{Title: "Counted", Published: true})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	doRequest(a, http.MethodGet, post.Link())
	doRequest(a, http.MethodGet, post.Link())

	got, err := a.Store.GetPublished(post.ID)
	if err != nil {
		t.Fatalf("GetPublished failed: %v", err)
	}
	if got.ViewsCount != 2 {
		t.Errorf("ViewsCount = %d, want 2", got.ViewsCount)
	}
}

func TestUnknownPostReturns404(t *testing.T) {
	a := newTestApp(t)
	rec := doRequest(a, http.MethodGet, "/blog/nope/")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDashboardRedirectsAnonymous(t *testing.T) {
	a := newTestApp(t)
	rec := doRequest(a, http.MethodGet, "/dashboard/")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login/" {
		t.Errorf("Location = %q, want /login/", loc)
	}
}

func TestProfileRedirectsAnonymous(t *testing.T) {
	a := newTestApp(t)
	rec := doRequest(a, http.MethodGet, "/profile/")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login/" {
		t.Errorf("Location = %q, want /login/", loc)
	}
}

// runWithSession executes handler inside the session middleware with the
// given user already signed in, and returns the recorder.
func runWithSession(t *testing.T, a *App, userID string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	wrapped := session.Middleware(a.sessions)(func(c echo.Context) error {
		if err := setUserSession(c, userID); err != nil {
			return err
		}
		return handler(c)
	})
	if err := wrapped(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	return rec
}

func TestRequireUserRedirectsAnonymousActions(t *testing.T) {
	a := newTestApp(t)
	post, err := a.Store.SavePost(views.Post{Title: "Guarded", Published: true, LikesCount: 3})
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, post.Link()+"like/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(post.ID)
	wrapped := session.Middleware(a.sessions)(requireUser(a.handleLikePost))
	if err := wrapped(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login/" {
		t.Errorf("Location = %q, want /login/", loc)
	}

	// The counter must be untouched.
	got, err := a.Store.GetPublished(post.ID)
	if err != nil {
		t.Fatalf("GetPublished failed: %v", err)
	}
	if got.LikesCount != 3 {
		t.Errorf("LikesCount = %d, want 3", got.LikesCount)
	}
}

func TestRequireRoleDeniesPlainUser(t *testing.T) {
	a := newTestApp(t)
	reader, err := a.Store.CreateUser("reader@example.com", "h", "Reader")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	gate := a.requireRole(views.RoleEditor, views.RoleAdmin)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	rec := runWithSession(t, a, reader.UserID, gate)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestRequireRoleAllowsEditor(t *testing.T) {
	a := newTestApp(t)
	editor, err := a.Store.CreateUser("editor@example.com", "h", "Editor")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := a.Store.UpdateRole(editor.UserID, views.RoleEditor); err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}

	gate := a.requireRole(views.RoleEditor, views.RoleAdmin)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	rec := runWithSession(t, a, editor.UserID, gate)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestFeedAndSitemap(t *testing.T) {
	a := newTestApp(t)
	if _, err := a.Store.SavePost(views.Post{Title: "Syndicated", Published: true}); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	rec := doRequest(a, http.MethodGet, "/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("feed status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Syndicated") {
		t.Error("feed should contain the post title")
	}

	rec = doRequest(a, http.MethodGet, "/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("sitemap status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/blog/") {
		t.Error("sitemap should contain blog URLs")
	}
}

func TestRobotsDisallowsDashboard(t *testing.T) {
	a := newTestApp(t)
	rec := doRequest(a, http.MethodGet, "/robots.txt")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Disallow: /dashboard/") {
		t.Error("robots.txt should disallow the dashboard")
	}
}
