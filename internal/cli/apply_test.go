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

	"upi-cli/internal/model"
)

func writeDraftFile(t *testing.T, d model.Draft) string {
	t.Helper()
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal draft: %v", err)
	}
	path := filepath.Join(t.TempDir(), "draft.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write draft file: %v", err)
	}
	return path
}

func completeDraft() model.Draft {
	return model.Draft{
		ID:                 "d1",
		FullName:           "Ada Lovelace",
		DateOfBirth:        "1990-12-10",
		Nationality:        "British",
		Email:              "ada@example.com",
		PhoneNumber:        "+44 1234 567890",
		CurrentSchool:      "Analytical Engine Institute",
		AcademicLevel:      model.LevelGraduate,
		IntendedMajor:      "Computer Science",
		TargetCountries:    []string{"UK", "USA"},
		MotivationEssay:    strings.Repeat("I want to study abroad. ", 10),
		FinancialReadiness: model.FinancialSelfFunded,
	}
}

func TestApplySubmit_SendsMultipartRegistration(t *testing.T) {
	var gotPath string
	var gotEmail, gotParentName string
	var hasParentName bool
	var gotCountries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotEmail = r.FormValue("email")
		vals, ok := r.MultipartForm.Value["parentName"]
		hasParentName = ok
		if ok {
			gotParentName = vals[0]
		}
		gotCountries = r.MultipartForm.Value["targetCountries"]
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"id":"a9"}}`)
	}))
	defer srv.Close()

	draftPath := writeDraftFile(t, completeDraft())
	stdout, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"apply", "submit", "--draft", draftPath))
	if err != nil {
		t.Fatalf("submit failed: %v\nstderr:\n%s", err, string(stderr))
	}
	if gotPath != "POST /upi/register" {
		t.Fatalf("expected POST /upi/register; got %q", gotPath)
	}
	if gotEmail != "ada@example.com" {
		t.Fatalf("expected email field; got %q", gotEmail)
	}
	// Empty parent fields still travel, present and empty.
	if !hasParentName || gotParentName != "" {
		t.Fatalf("expected empty parentName part; present=%v value=%q", hasParentName, gotParentName)
	}
	if len(gotCountries) != 2 {
		t.Fatalf("expected two targetCountries parts; got %v", gotCountries)
	}

	env := mustEnvelope(t, stdout)
	data, _ := env["data"].(map[string]any)
	if data["submitted"] != true {
		t.Fatalf("expected submitted true; got %#v", data)
	}
}

func TestApplySubmit_ShortEssayIsAdvisoryOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(32 << 20)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"id":"a9"}}`)
	}))
	defer srv.Close()

	d := completeDraft()
	d.MotivationEssay = "Short but present."
	draftPath := writeDraftFile(t, d)

	stdout, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"apply", "submit", "--draft", draftPath))
	if err != nil {
		t.Fatalf("submit failed: %v\nstderr:\n%s", err, string(stderr))
	}
	env := mustEnvelope(t, stdout)
	data, _ := env["data"].(map[string]any)
	advisory, _ := data["advisory"].([]any)
	if len(advisory) == 0 {
		t.Fatalf("expected advisory notes for short essay; got %#v", data)
	}
}

func TestApplySubmit_IncompleteDraftMakesNoRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	d := completeDraft()
	d.Email = ""
	draftPath := writeDraftFile(t, d)

	_, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"apply", "submit", "--draft", draftPath))
	if err == nil {
		t.Fatal("expected incomplete draft to fail")
	}
	if !strings.Contains(string(stderr), "draft is incomplete") {
		t.Fatalf("expected incomplete message; got stderr:\n%s", string(stderr))
	}
	if requests != 0 {
		t.Fatalf("expected no network requests; got %d", requests)
	}
}

func TestApplySubmit_ServerFailureKeepsDraftFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(32 << 20)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"message":"Registration failed"}`)
	}))
	defer srv.Close()

	draftPath := writeDraftFile(t, completeDraft())
	_, stderr, err := runCLI(t, baseArgs(srv.URL, t.TempDir(),
		"apply", "submit", "--draft", draftPath))
	if err == nil {
		t.Fatal("expected server failure to surface")
	}
	if !strings.Contains(string(stderr), "Registration failed") {
		t.Fatalf("expected server message; got stderr:\n%s", string(stderr))
	}
	if _, statErr := os.Stat(draftPath); statErr != nil {
		t.Fatalf("expected draft file to survive failed submit: %v", statErr)
	}
}

func TestApplyValidate_ReportsProblems(t *testing.T) {
	d := completeDraft()
	d.PhoneNumber = ""
	d.MotivationEssay = "too short"
	draftPath := writeDraftFile(t, d)

	stdout, stderr, err := runCLI(t, []string{"--state-dir", t.TempDir(),
		"apply", "validate", "--draft", draftPath})
	if err != nil {
		t.Fatalf("validate failed: %v\nstderr:\n%s", err, string(stderr))
	}
	env := mustEnvelope(t, stdout)
	data, _ := env["data"].(map[string]any)
	if data["ok"] != false {
		t.Fatalf("expected ok false; got %#v", data)
	}
	blocking, _ := data["blocking"].([]any)
	advisory, _ := data["advisory"].([]any)
	if len(blocking) == 0 || len(advisory) == 0 {
		t.Fatalf("expected blocking and advisory problems; got %#v", data)
	}
}
