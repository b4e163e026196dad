package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"upi-cli/internal/model"
)

// MaxFeaturedImageSize caps the blog editor's single featured-image upload.
// Independent of the wizard's per-document cap.
const MaxFeaturedImageSize = 15 << 20

// BlogPayload is the multipart body for blog create/update.
type BlogPayload struct {
	Title    string
	Excerpt  string
	Content  string
	Status   model.PostStatus
	Featured bool

	Categories []string
	Tags       []string

	MetaTitle       string
	MetaDescription string
	Keywords        string

	// FeaturedImagePath optionally attaches a local image file.
	FeaturedImagePath string
	FeaturedImageAlt  string
}

func buildBlogForm(p BlogPayload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"title", p.Title},
		{"excerpt", p.Excerpt},
		{"content", p.Content},
		{"status", string(p.Status)},
		{"featured", strconv.FormatBool(p.Featured)},
		{"metaTitle", p.MetaTitle},
		{"metaDescription", p.MetaDescription},
		{"keywords", p.Keywords},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("field %s: %w", f[0], err)
		}
	}
	// Sets go out as repeated same-named parts.
	for _, c := range p.Categories {
		if err := w.WriteField("categories", c); err != nil {
			return nil, "", fmt.Errorf("field categories: %w", err)
		}
	}
	for _, t := range p.Tags {
		if err := w.WriteField("tags", t); err != nil {
			return nil, "", fmt.Errorf("field tags: %w", err)
		}
	}
	if p.FeaturedImageAlt != "" {
		if err := w.WriteField("featuredImageAlt", p.FeaturedImageAlt); err != nil {
			return nil, "", fmt.Errorf("field featuredImageAlt: %w", err)
		}
	}
	if p.FeaturedImagePath != "" {
		if err := attachFile(w, "featuredImage", p.FeaturedImagePath, MaxFeaturedImageSize); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// buildRegisterForm serializes the whole draft for the terminal submission:
// scalars as individual parts, targetCountries as repeated parts, and each
// document file as a repeated binary part. This is the only point where
// document bytes leave the machine.
func buildRegisterForm(d model.Draft) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"fullName", d.FullName},
		{"dateOfBirth", d.DateOfBirth},
		{"nationality", d.Nationality},
		{"email", d.Email},
		{"phoneNumber", d.PhoneNumber},
		{"address", d.Address},
		{"isMinor", strconv.FormatBool(d.IsMinor)},
		{"parentName", d.ParentName},
		{"parentEmail", d.ParentEmail},
		{"parentPhone", d.ParentPhone},
		{"currentSchool", d.CurrentSchool},
		{"academicLevel", string(d.AcademicLevel)},
		{"intendedMajor", d.IntendedMajor},
		{"motivationEssay", d.MotivationEssay},
		{"financialReadiness", string(d.FinancialReadiness)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("field %s: %w", f[0], err)
		}
	}
	for _, c := range d.TargetCountries {
		if err := w.WriteField("targetCountries", c); err != nil {
			return nil, "", fmt.Errorf("field targetCountries: %w", err)
		}
	}
	for _, doc := range d.Documents {
		if err := attachFile(w, "documents", doc.Path, 0); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func attachFile(w *multipart.Writer, field, path string, maxSize int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if maxSize > 0 {
		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Size() > maxSize {
			return fmt.Errorf("%s exceeds the %dMB limit", filepath.Base(path), maxSize>>20)
		}
	}

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("form file %s: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return nil
}

// IsImagePath is a cheap extension check for the featured-image picker.
func IsImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
