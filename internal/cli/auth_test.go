package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAuthWhoami_ResultEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"result":{"id":"u1","name":"Ada","email":"ada@example.com","role":"admin"}}`)
	}))
	defer srv.Close()

	stdout, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(), "auth", "whoami"))
	if err != nil {
		t.Fatalf("whoami failed: %v\nstderr:\n%s", err, string(stderr))
	}
	env := mustEnvelope(t, stdout)
	data, _ := env["data"].(map[string]any)
	if data["email"] != "ada@example.com" || data["role"] != "admin" {
		t.Fatalf("unexpected identity: %#v", data)
	}
}

func TestAuthWhoami_NotLoggedIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"Unauthorized"}`)
	}))
	defer srv.Close()

	_, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(), "auth", "whoami"))
	if err == nil {
		t.Fatal("expected whoami to fail without a session")
	}
	if !strings.Contains(string(stderr), "not logged in") {
		t.Fatalf("expected friendly message; got stderr:\n%s", string(stderr))
	}
}

func TestAuthLogout_ClearsStoredCookies(t *testing.T) {
	dir := t.TempDir()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/me":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok"})
			io.WriteString(w, `{"result":{"id":"u1","name":"Ada","email":"ada@example.com"}}`)
		case "/auth/logout":
			io.WriteString(w, `{"data":{}}`)
		}
	}))
	defer srv.Close()

	if _, stderr, err := runCLI(t, baseArgs(srv.URL, dir, "auth", "whoami")); err != nil {
		t.Fatalf("whoami failed: %v\nstderr:\n%s", err, string(stderr))
	}
	cookiePath := filepath.Join(dir, "cookies.json")
	if _, err := os.Stat(cookiePath); err != nil {
		t.Fatalf("expected cookie file after whoami: %v", err)
	}

	if _, stderr, err := runCLI(t, baseArgs(srv.URL, dir, "auth", "logout")); err != nil {
		t.Fatalf("logout failed: %v\nstderr:\n%s", err, string(stderr))
	}
	if _, err := os.Stat(cookiePath); !os.IsNotExist(err) {
		t.Fatalf("expected cookie file removed after logout; stat err: %v", err)
	}
}
