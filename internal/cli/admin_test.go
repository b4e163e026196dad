package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const appsListBody = `{"data":[
  {"id":"a1","fullName":"Ada Lovelace","email":"ada@example.com","nationality":"British","currentSchool":"X","academicLevel":"graduate","intendedMajor":"CS","targetCountries":["UK"],"motivationEssay":"...","financialReadiness":"self-funded","status":"pending","createdAt":"2026-08-01T10:00:00Z"},
  {"id":"a2","fullName":"Grace Hopper","email":"grace@example.com","nationality":"American","currentSchool":"Y","academicLevel":"graduate","intendedMajor":"Math","targetCountries":["USA","UK"],"motivationEssay":"...","financialReadiness":"scholarship","status":"reviewing","createdAt":"2026-08-02T10:00:00Z","documents":[{"name":"transcript.pdf","url":"/uploads/docs/transcript.pdf","size":1024}]}
]}`

func TestAdminAppsList_ClientSideFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upi/applications" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, appsListBody)
	}))
	defer srv.Close()

	stdout, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"admin", "apps", "list", "--search", "hopper", "--status", "reviewing"))
	if err != nil {
		t.Fatalf("list failed: %v\nstderr:\n%s", err, string(stderr))
	}
	env := mustEnvelope(t, stdout)
	data, _ := env["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected one filtered application; got %#v", env["data"])
	}
	first, _ := data[0].(map[string]any)
	if first["id"] != "a2" {
		t.Fatalf("expected a2; got %#v", first)
	}
	meta, _ := env["meta"].(map[string]any)
	if meta["total"] != float64(2) {
		t.Fatalf("expected total 2; got %#v", meta)
	}
}

func TestAdminAppsStatus_ReportsConfirmedState(t *testing.T) {
	var patched string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/upi/applications/a1/status":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			patched = body["status"]
			io.WriteString(w, `{"data":{}}`)
		case r.Method == http.MethodGet && r.URL.Path == "/upi/applications":
			io.WriteString(w, strings.Replace(appsListBody, `"a1","fullName":"Ada Lovelace","email":"ada@example.com","nationality":"British","currentSchool":"X","academicLevel":"graduate","intendedMajor":"CS","targetCountries":["UK"],"motivationEssay":"...","financialReadiness":"self-funded","status":"pending"`,
				`"a1","fullName":"Ada Lovelace","email":"ada@example.com","nationality":"British","currentSchool":"X","academicLevel":"graduate","intendedMajor":"CS","targetCountries":["UK"],"motivationEssay":"...","financialReadiness":"self-funded","status":"accepted"`, 1))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	stdout, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"admin", "apps", "status", "a1", "accepted"))
	if err != nil {
		t.Fatalf("status failed: %v\nstderr:\n%s", err, string(stderr))
	}
	if patched != "accepted" {
		t.Fatalf("expected PATCH body status accepted; got %q", patched)
	}
	env := mustEnvelope(t, stdout)
	data, _ := env["data"].(map[string]any)
	if data["status"] != "accepted" {
		t.Fatalf("expected refetched confirmed status; got %#v", data)
	}
}

func TestAdminAppsStatus_RejectsUnknownStatus(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	_, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"admin", "apps", "status", "a1", "approved"))
	if err == nil {
		t.Fatal("expected unknown status to fail")
	}
	if !strings.Contains(string(stderr), "invalid status") {
		t.Fatalf("expected invalid status message; got stderr:\n%s", string(stderr))
	}
	if requests != 0 {
		t.Fatalf("expected no network requests; got %d", requests)
	}
}

func TestAdminAppsExport_Stdout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, appsListBody)
	}))
	defer srv.Close()

	stdout, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"admin", "apps", "export", "--out", "-"))
	if err != nil {
		t.Fatalf("export failed: %v\nstderr:\n%s", err, string(stderr))
	}

	lines := strings.Split(strings.TrimRight(string(stdout), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows; got %d lines:\n%s", len(lines), string(stdout))
	}
	if !strings.HasPrefix(lines[0], "id,fullName,email") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[2], "USA; UK") {
		t.Fatalf("expected joined multi-country cell; got %q", lines[2])
	}
}

func TestAdminAppsDoc_ResolvesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, appsListBody)
	}))
	defer srv.Close()

	stdout, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"admin", "apps", "doc", "a2", "0"))
	if err != nil {
		t.Fatalf("doc failed: %v\nstderr:\n%s", err, string(stderr))
	}
	env := mustEnvelope(t, stdout)
	data, _ := env["data"].(map[string]any)
	if data["url"] != srv.URL+"/uploads/docs/transcript.pdf" {
		t.Fatalf("expected absolute document URL; got %#v", data["url"])
	}

	_, _, err = runCLI(t, baseArgs(srv.URL, t.TempDir(), "admin", "apps", "doc", "a2", "5"))
	if err == nil {
		t.Fatal("expected out-of-range document index to fail")
	}
}

func TestAdminAppsDelete_FailureKeepsIt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"message":"Admins only"}`)
	}))
	defer srv.Close()

	_, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"admin", "apps", "delete", "a1", "--yes"))
	if err == nil {
		t.Fatal("expected delete to surface server error")
	}
	if !strings.Contains(string(stderr), "Admins only") {
		t.Fatalf("expected server message; got stderr:\n%s", string(stderr))
	}
}

func TestAdminAppsDoc_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upi/applications":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, appsListBody)
		case "/uploads/docs/transcript.pdf":
			w.Write([]byte("%PDF-1.4 fake"))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "transcript.pdf")
	stdout, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"admin", "apps", "doc", "a2", "0", "--download", dest))
	if err != nil {
		t.Fatalf("doc --download failed: %v\nstderr:\n%s", err, string(stderr))
	}

	env := mustEnvelope(t, stdout)
	data, _ := env["data"].(map[string]any)
	if data["saved"] != dest || data["bytes"] != float64(13) {
		t.Fatalf("unexpected download report: %#v", data)
	}
	b, err := os.ReadFile(dest)
	if err != nil || string(b) != "%PDF-1.4 fake" {
		t.Fatalf("expected document bytes saved; err=%v content=%q", err, string(b))
	}
}
