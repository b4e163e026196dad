package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"upi-cli/internal/model"
)

// MaxDocumentSize caps each wizard document. (The blog editor's featured
// image has its own separate 15MB cap; the constants are not shared.)
const MaxDocumentSize = 10 << 20

// EssayMinLength is the advisory minimum for the motivation essay.
const EssayMinLength = 200

// documentExts is the image/document allowlist for wizard uploads.
var documentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Problem is a single validation finding. Advisory problems are shown but
// never block a transition; the server is the real enforcement point.
type Problem struct {
	Field    string `json:"field"`
	Msg      string `json:"msg"`
	Advisory bool   `json:"advisory,omitempty"`
}

// Blocking filters out advisory problems.
func Blocking(problems []Problem) []Problem {
	var out []Problem
	for _, p := range problems {
		if !p.Advisory {
			out = append(out, p)
		}
	}
	return out
}

// ValidateStep checks one step's fields. The review step aggregates every
// earlier step.
func ValidateStep(d model.Draft, s Step) []Problem {
	switch s {
	case StepPersonal:
		return validatePersonal(d)
	case StepAcademic:
		return validateAcademic(d)
	case StepDocuments:
		return validateDocuments(d)
	case StepEssay:
		return validateEssay(d)
	case StepReview:
		var all []Problem
		for _, step := range []Step{StepPersonal, StepAcademic, StepDocuments, StepEssay} {
			all = append(all, ValidateStep(d, step)...)
		}
		return all
	}
	return nil
}

func required(field, value, msg string) *Problem {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return &Problem{Field: field, Msg: msg}
}

func validatePersonal(d model.Draft) []Problem {
	var out []Problem
	checks := []*Problem{
		required("fullName", d.FullName, "full name is required"),
		required("dateOfBirth", d.DateOfBirth, "date of birth is required"),
		required("nationality", d.Nationality, "nationality is required"),
		required("email", d.Email, "email is required"),
		required("phoneNumber", d.PhoneNumber, "phone number is required"),
	}
	for _, c := range checks {
		if c != nil {
			out = append(out, *c)
		}
	}
	if d.Email != "" && !strings.Contains(d.Email, "@") {
		out = append(out, Problem{Field: "email", Msg: "email does not look valid"})
	}
	// Parent contacts for minors are policy, not a hard gate: the review
	// step renders them empty verbatim and submission still proceeds.
	if d.IsMinor {
		if strings.TrimSpace(d.ParentName) == "" {
			out = append(out, Problem{Field: "parentName", Msg: "parent/guardian name is expected for minors", Advisory: true})
		}
		if strings.TrimSpace(d.ParentEmail) == "" && strings.TrimSpace(d.ParentPhone) == "" {
			out = append(out, Problem{Field: "parentEmail", Msg: "a parent/guardian contact is expected for minors", Advisory: true})
		}
	}
	return out
}

func validateAcademic(d model.Draft) []Problem {
	var out []Problem
	checks := []*Problem{
		required("currentSchool", d.CurrentSchool, "current school is required"),
		required("academicLevel", string(d.AcademicLevel), "academic level is required"),
		required("intendedMajor", d.IntendedMajor, "intended major is required"),
	}
	for _, c := range checks {
		if c != nil {
			out = append(out, *c)
		}
	}
	if len(d.TargetCountries) == 0 {
		out = append(out, Problem{Field: "targetCountries", Msg: "pick at least one target country"})
	}
	return out
}

func validateDocuments(d model.Draft) []Problem {
	if len(d.Documents) == 0 {
		return []Problem{{Field: "documents", Msg: "no documents attached", Advisory: true}}
	}
	return nil
}

func validateEssay(d model.Draft) []Problem {
	var out []Problem
	if p := required("motivationEssay", d.MotivationEssay, "motivation essay is required"); p != nil {
		out = append(out, *p)
	} else if len([]rune(d.MotivationEssay)) < EssayMinLength {
		out = append(out, Problem{
			Field:    "motivationEssay",
			Msg:      fmt.Sprintf("essay is under %d characters", EssayMinLength),
			Advisory: true,
		})
	}
	if p := required("financialReadiness", string(d.FinancialReadiness), "financial readiness is required"); p != nil {
		out = append(out, *p)
	}
	return out
}

// CheckDocument validates a local file against the upload rules before it
// is attached to the draft. No bytes are read; only name and size.
func CheckDocument(path string) (model.DocumentFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.DocumentFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !documentExts[ext] {
		return model.DocumentFile{}, fmt.Errorf("%s: unsupported file type %s (allowed: pdf, doc, docx, jpg, png)", filepath.Base(path), ext)
	}
	if info.Size() > MaxDocumentSize {
		return model.DocumentFile{}, fmt.Errorf("%s exceeds the %dMB limit", filepath.Base(path), MaxDocumentSize>>20)
	}
	return model.DocumentFile{
		Path: path,
		Name: filepath.Base(path),
		Size: info.Size(),
	}, nil
}
