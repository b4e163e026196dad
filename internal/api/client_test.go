package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"upi-cli/internal/model"
)

func testClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestListBlogs_SendsOnlyNonEmptyFilters(t *testing.T) {
	var gotQuery string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"id":"p1","slug":"one","title":"One"}]}`))
	})

	posts, err := c.ListBlogs(context.Background(), model.BlogFilters{Search: "go", SortBy: "views"})
	if err != nil {
		t.Fatalf("ListBlogs: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "one" {
		t.Fatalf("posts = %+v", posts)
	}
	if gotQuery != "search=go&sortBy=views" {
		t.Fatalf("query = %q", gotQuery)
	}
}

func TestListBlogs_NoFiltersNoQuery(t *testing.T) {
	var gotURL string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`{"data": []}`))
	})
	if _, err := c.ListBlogs(context.Background(), model.BlogFilters{}); err != nil {
		t.Fatalf("ListBlogs: %v", err)
	}
	if gotURL != "/blogs" {
		t.Fatalf("url = %q", gotURL)
	}
}

func TestErrorMessage_ServerProvided(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "you must be logged in"}`))
	})
	_, err := c.GetBlog(context.Background(), "any")
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type %T", err)
	}
	if apiErr.Msg != "you must be logged in" {
		t.Fatalf("msg = %q", apiErr.Msg)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Fatalf("status = %d", apiErr.Status)
	}
}

func TestErrorMessage_FallsBackPerOperation(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	})
	_, err := c.ToggleLike(context.Background(), "p1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "failed to update like" {
		t.Fatalf("msg = %q", err.Error())
	}
}

func TestToggleLike_ReturnsServerState(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/blogs/p1/like" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"data": {"likes": [{"id":"u1"}], "hasLiked": true}}`))
	})
	res, err := c.ToggleLike(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !res.HasLiked || len(res.Likes) != 1 || res.Likes[0].ID != "u1" {
		t.Fatalf("result = %+v", res)
	}
}

func TestMe_DecodesResultEnvelope(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"id":"u1","name":"Ada","email":"ada@example.com"}}`))
	})
	id, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if id.ID != "u1" || id.Name != "Ada" {
		t.Fatalf("identity = %+v", id)
	}
}

func TestUpdateApplicationStatus_PatchBody(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		b := make([]byte, r.ContentLength)
		r.Body.Read(b)
		gotBody = string(b)
		w.Write([]byte(`{"message": "ok"}`))
	})
	err := c.UpdateApplicationStatus(context.Background(), "app-7", model.ApplicationAccepted)
	if err != nil {
		t.Fatalf("UpdateApplicationStatus: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/upi/applications/app-7/status" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if gotBody != `{"status":"accepted"}` {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestResolveDocumentURL(t *testing.T) {
	c, err := New("https://api.example.com/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.ResolveDocumentURL("/uploads/doc.pdf"); got != "https://api.example.com/uploads/doc.pdf" {
		t.Fatalf("relative: %q", got)
	}
	if got := c.ResolveDocumentURL("https://cdn.example.com/x.pdf"); got != "https://cdn.example.com/x.pdf" {
		t.Fatalf("absolute: %q", got)
	}
	if got := c.ResolveDocumentURL(""); got != "" {
		t.Fatalf("empty: %q", got)
	}
}

func TestCookiePersistence_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cookiePath := filepath.Join(dir, "cookies.json")

	var sawCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			sawCookie = c.Value
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s3cret", Path: "/"})
		w.Write([]byte(`{"result": {"id":"u1"}}`))
	}))
	defer srv.Close()

	c1, err := New(srv.URL, WithCookieFile(cookiePath))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c1.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if _, err := os.Stat(cookiePath); err != nil {
		t.Fatalf("cookie file not written: %v", err)
	}

	// A fresh client picks the session back up from disk.
	c2, err := New(srv.URL, WithCookieFile(cookiePath))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c2.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if sawCookie != "s3cret" {
		t.Fatalf("server saw cookie %q", sawCookie)
	}
}
