package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"upi-cli/internal/model"
	"upi-cli/internal/store"
	"upi-cli/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
)

func testDraft() model.Draft {
	return model.Draft{
		ID:                 "d1",
		FullName:           "Ada Lovelace",
		DateOfBirth:        "1990-12-10",
		Nationality:        "British",
		Email:              "ada@example.com",
		PhoneNumber:        "+44 1234",
		CurrentSchool:      "Analytical Engine Institute",
		AcademicLevel:      model.LevelGraduate,
		IntendedMajor:      "CS",
		TargetCountries:    []string{"UK"},
		MotivationEssay:    strings.Repeat("motivation ", 25),
		FinancialReadiness: model.FinancialScholarship,
	}
}

func loadedWizard(t *testing.T, d model.Draft, ok bool, policy wizard.GatePolicy) wizardModel {
	t.Helper()
	m := newWizardModel(Options{State: store.StateStore{Dir: t.TempDir()}, GatePolicy: policy, DateFormat: "2006-01-02"})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = mm.(wizardModel)
	mm, _ = m.Update(draftLoadedMsg{draft: d, ok: ok})
	return mm.(wizardModel)
}

func key(m wizardModel, k tea.KeyType) wizardModel {
	mm, _ := m.Update(tea.KeyMsg{Type: k})
	return mm.(wizardModel)
}

func TestWizardView_StartsAtPersonalStep(t *testing.T) {
	m := loadedWizard(t, model.Draft{}, false, wizard.GateBlock)
	out := m.View()
	if !strings.Contains(out, "Full name") {
		t.Fatalf("expected personal fields; got:\n%s", out)
	}
	if !strings.Contains(out, "personal") {
		t.Fatalf("expected breadcrumb; got:\n%s", out)
	}
}

func TestWizardView_GateBlocksEmptyStep(t *testing.T) {
	m := loadedWizard(t, model.Draft{}, false, wizard.GateBlock)
	m = key(m, tea.KeyCtrlN)
	if m.wiz.Step() != wizard.StepPersonal {
		t.Fatalf("expected to stay on personal; got %v", m.wiz.Step())
	}
	if !strings.Contains(m.minibuffer, "complete this step first") {
		t.Fatalf("expected gate message; got %q", m.minibuffer)
	}
}

func TestWizardView_AdvisoryPolicyAdvances(t *testing.T) {
	m := loadedWizard(t, model.Draft{}, false, wizard.GateAdvisory)
	m = key(m, tea.KeyCtrlN)
	if m.wiz.Step() != wizard.StepAcademic {
		t.Fatalf("expected advisory policy to advance; got %v", m.wiz.Step())
	}
}

func TestWizardView_CompleteDraftWalksToReview(t *testing.T) {
	m := loadedWizard(t, testDraft(), true, wizard.GateBlock)
	for i := 0; i < 4; i++ {
		m = key(m, tea.KeyCtrlN)
	}
	if m.wiz.Step() != wizard.StepReview {
		t.Fatalf("expected review after four nexts; got %v", m.wiz.Step())
	}
	out := m.View()
	if !strings.Contains(out, "Ada Lovelace") {
		t.Fatalf("expected review summary; got:\n%s", out)
	}
	if !strings.Contains(out, "ctrl+s: submit") {
		t.Fatalf("expected submit help on review; got:\n%s", out)
	}
}

func TestWizardView_ResumeFlashesMessage(t *testing.T) {
	m := loadedWizard(t, testDraft(), true, wizard.GateBlock)
	if !strings.Contains(m.minibuffer, "resumed") {
		t.Fatalf("expected resume notice; got %q", m.minibuffer)
	}
}

func TestWizardView_EssayCountWarnsBelowMinimum(t *testing.T) {
	d := testDraft()
	d.MotivationEssay = "short"
	m := loadedWizard(t, d, true, wizard.GateBlock)
	for i := 0; i < 3; i++ {
		m = key(m, tea.KeyCtrlN)
	}
	if m.wiz.Step() != wizard.StepEssay {
		t.Fatalf("expected essay step; got %v", m.wiz.Step())
	}
	if !strings.Contains(m.View(), "aim for at least") {
		t.Fatalf("expected advisory essay count; got:\n%s", m.View())
	}
}

func TestIsMinorAt(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !isMinorAt("2010-01-01", now) {
		t.Fatal("expected 16-year-old to be minor")
	}
	if isMinorAt("2000-01-01", now) {
		t.Fatal("expected 26-year-old to be adult")
	}
	if isMinorAt("not-a-date", now) {
		t.Fatal("expected unparseable date to not mark minor")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" UK, USA ,, Canada ")
	if len(got) != 3 || got[0] != "UK" || got[2] != "Canada" {
		t.Fatalf("unexpected split: %v", got)
	}
}

func TestWizardSubmit_OutcomeAppliedOnEventLoop(t *testing.T) {
	m := loadedWizard(t, testDraft(), true, wizard.GateBlock)
	for i := 0; i < 4; i++ {
		m = key(m, tea.KeyCtrlN)
	}

	mm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = mm.(wizardModel)
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	// In flight: no state transition yet, keys ignored, busy help shown.
	if m.wiz.Step() != wizard.StepReview || !m.wiz.Submitting() {
		t.Fatalf("in-flight state: step=%v submitting=%v", m.wiz.Step(), m.wiz.Submitting())
	}
	if !strings.Contains(m.View(), "submitting...") {
		t.Fatalf("expected busy help; got:\n%s", m.View())
	}
	m = key(m, tea.KeyCtrlN)
	if m.wiz.Step() != wizard.StepReview {
		t.Fatal("keys should be ignored while in flight")
	}

	mm, _ = m.Update(submitDoneMsg{draftID: "d1", err: errors.New("server rejected the application")})
	m = mm.(wizardModel)
	if m.wiz.Step() != wizard.StepReview || m.wiz.Submitting() {
		t.Fatalf("failure state: step=%v submitting=%v", m.wiz.Step(), m.wiz.Submitting())
	}
	if !strings.Contains(m.minibuffer, "server rejected") {
		t.Fatalf("expected failure flash; got %q", m.minibuffer)
	}

	mm, cleanup := m.Update(submitDoneMsg{draftID: "d1", err: nil})
	m = mm.(wizardModel)
	if m.wiz.Step() != wizard.StepSubmitted {
		t.Fatalf("expected submitted; got %v", m.wiz.Step())
	}
	if cleanup == nil {
		t.Fatal("expected an autosave cleanup command")
	}
}

func TestWizardSubmit_SuccessRemovesAutosavedDraft(t *testing.T) {
	m := loadedWizard(t, testDraft(), true, wizard.GateBlock)
	ctx := context.Background()
	if err := m.opts.State.SaveDraft(ctx, testDraft()); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	for i := 0; i < 4; i++ {
		m = key(m, tea.KeyCtrlN)
	}
	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = mm.(wizardModel)

	mm, cleanup := m.Update(submitDoneMsg{draftID: testDraft().ID, err: nil})
	m = mm.(wizardModel)
	if cleanup == nil {
		t.Fatal("expected an autosave cleanup command")
	}
	_ = cleanup()
	if _, ok, err := m.opts.State.LoadDraft(ctx); err != nil || ok {
		t.Fatalf("autosave should be gone after submission: ok=%v err=%v", ok, err)
	}
}

func TestWizardSubmit_AdvisoryIncompleteFlashesGate(t *testing.T) {
	d := testDraft()
	d.Email = ""
	m := loadedWizard(t, d, false, wizard.GateAdvisory)
	for i := 0; i < 4; i++ {
		m = key(m, tea.KeyCtrlN)
	}

	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = mm.(wizardModel)
	if m.wiz.Submitting() {
		t.Fatal("incomplete draft must not start a submission")
	}
	if !strings.Contains(m.minibuffer, "complete this step first") {
		t.Fatalf("expected gate flash; got %q", m.minibuffer)
	}
}
