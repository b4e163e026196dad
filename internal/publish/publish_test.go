package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"upi-cli/internal/model"
)

func testPost() model.Post {
	published := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return model.Post{
		ID:          "p1",
		Slug:        "visa-checklist",
		Title:       "Visa Checklist",
		Excerpt:     "What to prepare before you apply.",
		Content:     "<h2>Documents</h2><ul><li>Passport</li><li>Transcript</li></ul><p>Start early.</p>",
		Status:      model.PostStatusPublished,
		Categories:  []string{"visas", "admissions"},
		Tags:        []string{"checklist"},
		Author:      model.UserRef{ID: "u1", Name: "Ada"},
		ReadTime:    3,
		PublishedAt: &published,
		Comments: []model.Comment{
			{
				ID:        "c1",
				User:      model.UserRef{ID: "u2", Name: "Grace"},
				Content:   "Very helpful.",
				CreatedAt: published.Add(time.Hour),
				Replies: []model.Comment{
					{ID: "c2", User: model.UserRef{ID: "u1", Name: "Ada"}, Content: "Thanks!", CreatedAt: published.Add(2 * time.Hour)},
				},
			},
		},
	}
}

func TestRenderPostMarkdown_ConvertsContent(t *testing.T) {
	t.Parallel()

	md := RenderPostMarkdown(testPost(), RenderOptions{})
	if !strings.Contains(md, "# Visa Checklist") {
		t.Fatalf("expected title header, got:\n%s", md)
	}
	if !strings.Contains(md, "- Slug: visa-checklist") || !strings.Contains(md, "- Status: published") {
		t.Fatalf("expected meta section, got:\n%s", md)
	}
	if !strings.Contains(md, "- Categories: admissions, visas") {
		t.Fatalf("expected sorted categories, got:\n%s", md)
	}
	if !strings.Contains(md, "## Documents") || !strings.Contains(md, "- Passport") {
		t.Fatalf("expected converted content, got:\n%s", md)
	}
	if strings.Contains(md, "<") {
		t.Fatalf("expected tags stripped, got:\n%s", md)
	}
	if strings.Contains(md, "Very helpful.") {
		t.Fatalf("expected comments excluded by default, got:\n%s", md)
	}
}

func TestRenderPostMarkdown_IncludesComments(t *testing.T) {
	t.Parallel()

	md := RenderPostMarkdown(testPost(), RenderOptions{IncludeComments: true})
	if !strings.Contains(md, "## Comments") {
		t.Fatalf("expected comments section, got:\n%s", md)
	}
	if !strings.Contains(md, "### Grace") || !strings.Contains(md, "#### Ada") {
		t.Fatalf("expected comment and reply headers, got:\n%s", md)
	}
}

func TestWritePost_RefusesOverwriteByDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := testPost()

	res, err := WritePost(p, dir, WriteOptions{})
	if err != nil {
		t.Fatalf("WritePost: %v", err)
	}
	want := filepath.Join(dir, "visa-checklist.md")
	if len(res.Written) != 1 || res.Written[0] != want {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected file written: %v", err)
	}

	if _, err := WritePost(p, dir, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "file exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
	if _, err := WritePost(p, dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	t.Parallel()

	got := HTMLToMarkdown("<h1>Guide</h1><p>Intro <strong>bold</strong>.</p>")
	if !strings.Contains(got, "# Guide") || !strings.Contains(got, "Intro bold.") {
		t.Fatalf("unexpected conversion: %q", got)
	}
}
