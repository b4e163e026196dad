package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"upi-cli/internal/model"
	"upi-cli/internal/wizard"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type wizardModel struct {
	opts Options
	wiz  *wizard.Wizard

	width  int
	height int

	inputs []textinput.Model
	labels []string
	focus  int
	essay  textarea.Model

	docInput  textinput.Model
	uploading bool

	minibuffer string
	flashSeq   int
	loaded     bool
}

type (
	draftLoadedMsg struct {
		draft model.Draft
		ok    bool
	}
	autosavedMsg struct{ err error }
	submitDoneMsg struct {
		draftID string
		err     error
	}
	progressTickMsg struct{}
	wizFlashDoneMsg struct{ seq int }
)

func newWizardModel(opts Options) wizardModel {
	m := wizardModel{opts: opts}

	m.essay = textarea.New()
	m.essay.Placeholder = "Why do you want to join the program?"
	m.essay.SetHeight(8)

	m.docInput = textinput.New()
	m.docInput.Prompt = "> "
	m.docInput.Placeholder = "path to document (.pdf .doc .docx .jpg .jpeg .png)"

	return m
}

func (m wizardModel) Init() tea.Cmd {
	st := m.opts.State
	return func() tea.Msg {
		d, ok, err := st.LoadDraft(context.Background())
		if err != nil {
			ok = false
		}
		return draftLoadedMsg{draft: d, ok: ok}
	}
}

func (m *wizardModel) flash(msg string) tea.Cmd {
	m.minibuffer = msg
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return wizFlashDoneMsg{seq: seq} })
}

func (m wizardModel) autosaveCmd() tea.Cmd {
	st, d := m.opts.State, m.wiz.Draft()
	return func() tea.Msg {
		return autosavedMsg{err: st.SaveDraft(context.Background(), d)}
	}
}

// submitCmd sends the frozen draft copy from BeginSubmit. The wizard itself
// is never touched off the event loop; the outcome lands as submitDoneMsg.
func (m wizardModel) submitCmd(d model.Draft) tea.Cmd {
	client := m.opts.Client
	return func() tea.Msg {
		return submitDoneMsg{draftID: d.ID, err: client.RegisterApplication(context.Background(), d)}
	}
}

// isMinorAt derives minor status from the date of birth when it parses.
func isMinorAt(dob string, now time.Time) bool {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(dob))
	if err != nil {
		return false
	}
	return t.AddDate(18, 0, 0).After(now)
}

// Per-step field definitions. Inputs are rebuilt from the draft each time a
// step is entered and committed back before leaving it.

func (m *wizardModel) buildInputs() {
	d := m.wiz.Draft()
	m.labels = nil
	m.inputs = nil
	m.focus = 0

	add := func(label, value, placeholder string) {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = placeholder
		in.SetValue(value)
		m.labels = append(m.labels, label)
		m.inputs = append(m.inputs, in)
	}

	switch m.wiz.Step() {
	case wizard.StepPersonal:
		add("Full name", d.FullName, "")
		add("Date of birth", d.DateOfBirth, "YYYY-MM-DD")
		add("Nationality", d.Nationality, "")
		add("Email", d.Email, "you@example.com")
		add("Phone number", d.PhoneNumber, "")
		add("Address", d.Address, "optional")
		if isMinorAt(d.DateOfBirth, time.Now()) {
			add("Parent/guardian name", d.ParentName, "recommended for minors")
			add("Parent/guardian email", d.ParentEmail, "recommended for minors")
			add("Parent/guardian phone", d.ParentPhone, "recommended for minors")
		}
	case wizard.StepAcademic:
		add("Current school", d.CurrentSchool, "")
		add("Academic level", string(d.AcademicLevel), "high-school | undergraduate | graduate")
		add("Intended major", d.IntendedMajor, "")
		add("Target countries", strings.Join(d.TargetCountries, ", "), "comma-separated")
	case wizard.StepDocuments:
		m.docInput.SetValue("")
	case wizard.StepEssay:
		m.essay.SetValue(d.MotivationEssay)
		add("Financial readiness", string(d.FinancialReadiness), "self-funded | scholarship | loan | undecided")
	}

	switch {
	case m.wiz.Step() == wizard.StepEssay:
		// focus 0 is the essay textarea; inputs follow in tab order
		m.essay.Focus()
	case m.wiz.Step() == wizard.StepDocuments:
		m.docInput.Focus()
	case len(m.inputs) > 0:
		m.inputs[0].Focus()
	}
}

func (m *wizardModel) commitInputs() {
	vals := make([]string, len(m.inputs))
	for i := range m.inputs {
		vals[i] = strings.TrimSpace(m.inputs[i].Value())
	}
	step := m.wiz.Step()
	essay := strings.TrimSpace(m.essay.Value())

	_ = m.wiz.Update(func(d *model.Draft) {
		switch step {
		case wizard.StepPersonal:
			d.FullName = vals[0]
			d.DateOfBirth = vals[1]
			d.Nationality = vals[2]
			d.Email = vals[3]
			d.PhoneNumber = vals[4]
			d.Address = vals[5]
			d.IsMinor = isMinorAt(vals[1], time.Now())
			if len(vals) > 8 {
				d.ParentName = vals[6]
				d.ParentEmail = vals[7]
				d.ParentPhone = vals[8]
			}
		case wizard.StepAcademic:
			d.CurrentSchool = vals[0]
			d.AcademicLevel = model.AcademicLevel(vals[1])
			d.IntendedMajor = vals[2]
			d.TargetCountries = splitList(vals[3])
		case wizard.StepEssay:
			d.MotivationEssay = essay
			if len(vals) > 0 {
				d.FinancialReadiness = model.FinancialReadiness(vals[0])
			}
		}
	})
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.essay.SetWidth(msg.Width - 6)
		m.docInput.Width = msg.Width - 6
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 30
		}
		return m, nil

	case draftLoadedMsg:
		if msg.ok {
			m.wiz = wizard.Resume(m.opts.Client, m.opts.GatePolicy, msg.draft)
		} else {
			m.wiz = wizard.New(m.opts.Client, m.opts.GatePolicy)
		}
		m.loaded = true
		m.buildInputs()
		if msg.ok {
			return m, m.flash("resumed saved draft")
		}
		return m, nil

	case wizFlashDoneMsg:
		if msg.seq == m.flashSeq {
			m.minibuffer = ""
		}
		return m, nil

	case autosavedMsg:
		if msg.err != nil {
			return m, m.flash("autosave failed: " + msg.err.Error())
		}
		return m, nil

	case progressTickMsg:
		if m.wiz != nil && m.wiz.TickProgress() {
			return m, tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return progressTickMsg{} })
		}
		m.uploading = false
		return m, nil

	case submitDoneMsg:
		m.wiz.FinishSubmit(msg.err)
		if msg.err != nil {
			return m, m.flash(msg.err.Error())
		}
		m.buildInputs()
		st, id := m.opts.State, msg.draftID
		return m, func() tea.Msg {
			// The autosaved copy is obsolete once the server has the application.
			_ = st.DeleteDraft(context.Background(), id)
			return nil
		}

	case tea.KeyMsg:
		if m.wiz == nil {
			return m, nil
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m wizardModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.wiz.Submitting() {
		// No edits while the terminal submission is in flight.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.commitInputs()
		return m, tea.Sequence(m.autosaveCmd(), tea.Quit)
	case "esc":
		if m.wiz.Step() == wizard.StepSubmitted {
			return m, tea.Quit
		}
		m.commitInputs()
		return m, tea.Sequence(m.autosaveCmd(), tea.Quit)
	case "ctrl+n", "pgdown":
		m.commitInputs()
		if err := m.wiz.Next(); err != nil {
			var gateErr *wizard.GateError
			if errors.As(err, &gateErr) {
				return m, m.flash(gateProblemSummary(gateErr))
			}
			return m, m.flash(err.Error())
		}
		m.buildInputs()
		return m, m.autosaveCmd()
	case "ctrl+p", "pgup":
		m.commitInputs()
		if err := m.wiz.Prev(); err == nil {
			m.buildInputs()
		}
		return m, nil
	case "tab", "shift+tab", "enter":
		if m.wiz.Step() == wizard.StepReview && msg.String() == "enter" {
			return m, nil
		}
		return m.cycleFocus(msg.String() == "shift+tab"), nil
	case "ctrl+s":
		if m.wiz.Step() == wizard.StepReview {
			d, err := m.wiz.BeginSubmit()
			if err != nil {
				var gateErr *wizard.GateError
				if errors.As(err, &gateErr) {
					return m, m.flash(gateProblemSummary(gateErr))
				}
				return m, m.flash(err.Error())
			}
			return m, m.submitCmd(d)
		}
	case "n":
		if m.wiz.Step() == wizard.StepSubmitted {
			if err := m.wiz.Reset(); err == nil {
				m.buildInputs()
			}
			return m, nil
		}
	case "q":
		if m.wiz.Step() == wizard.StepSubmitted {
			return m, tea.Quit
		}
	}

	return m.updateStepInput(msg)
}

func (m wizardModel) cycleFocus(backward bool) wizardModel {
	n := len(m.inputs)
	if m.wiz.Step() == wizard.StepEssay {
		n++ // the textarea participates in focus order
	}
	if n == 0 {
		return m
	}
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.essay.Blur()
	if backward {
		m.focus = (m.focus - 1 + n) % n
	} else {
		m.focus = (m.focus + 1) % n
	}
	if m.wiz.Step() == wizard.StepEssay && m.focus == 0 {
		m.essay.Focus()
	} else {
		idx := m.focus
		if m.wiz.Step() == wizard.StepEssay {
			idx--
		}
		if idx >= 0 && idx < len(m.inputs) {
			m.inputs[idx].Focus()
		}
	}
	return m
}

func (m wizardModel) updateStepInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.wiz.Step() {
	case wizard.StepDocuments:
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(m.docInput.Value())
			if path == "" {
				return m, nil
			}
			if err := m.wiz.AddDocument(path); err != nil {
				return m, m.flash(err.Error())
			}
			m.docInput.SetValue("")
			m.uploading = true
			return m, tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return progressTickMsg{} })
		case "ctrl+d":
			docs := m.wiz.Draft().Documents
			if len(docs) > 0 {
				_ = m.wiz.RemoveDocument(len(docs) - 1)
			}
			return m, nil
		}
		m.docInput, cmd = m.docInput.Update(msg)
		return m, cmd

	case wizard.StepEssay:
		if m.focus == 0 {
			m.essay, cmd = m.essay.Update(msg)
			return m, cmd
		}
		idx := m.focus - 1
		if idx >= 0 && idx < len(m.inputs) {
			m.inputs[idx], cmd = m.inputs[idx].Update(msg)
		}
		return m, cmd

	default:
		if m.focus >= 0 && m.focus < len(m.inputs) {
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		}
		return m, cmd
	}
}

func gateProblemSummary(e *wizard.GateError) string {
	fields := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		fields = append(fields, p.Field)
	}
	return "complete this step first: " + strings.Join(fields, ", ")
}

func (m wizardModel) View() string {
	if !m.loaded {
		return styleMuted().Render("loading draft...")
	}

	var b strings.Builder
	b.WriteString(m.breadcrumb())
	b.WriteString("\n\n")

	switch m.wiz.Step() {
	case wizard.StepDocuments:
		b.WriteString(m.viewDocuments())
	case wizard.StepReview:
		b.WriteString(m.viewReview())
	case wizard.StepSubmitted:
		b.WriteString(styleOK().Render("Application submitted."))
		b.WriteString("\n\n")
		b.WriteString(styleMuted().Render("n: start a new application   q: quit"))
	default:
		b.WriteString(m.viewFields())
	}

	b.WriteString("\n\n")
	help := "ctrl+n: next   ctrl+p: back   tab: field   esc: save & quit"
	if m.wiz.Step() == wizard.StepReview {
		help = "ctrl+s: submit   ctrl+p: back   esc: save & quit"
	}
	if m.wiz.Submitting() {
		help = "submitting..."
	}
	status := help
	if m.minibuffer != "" {
		status = m.minibuffer
	}
	b.WriteString(renderStatusBar(m.width, status, ""))
	return b.String()
}

func (m wizardModel) breadcrumb() string {
	cur := m.wiz.Step()
	parts := make([]string, 0, 5)
	for s := wizard.StepPersonal; s <= wizard.StepReview; s++ {
		label := fmt.Sprintf("%d %s", int(s), s.String())
		if s == cur {
			parts = append(parts, styleHeading().Render(label))
		} else {
			parts = append(parts, styleMuted().Render(label))
		}
	}
	return strings.Join(parts, styleMuted().Render("  ›  "))
}

func (m wizardModel) viewFields() string {
	var b strings.Builder
	for i, in := range m.inputs {
		label := m.labels[i]
		idx := i
		if m.wiz.Step() == wizard.StepEssay {
			idx = i + 1
		}
		if idx == m.focus {
			b.WriteString(styleHeading().Render(label))
		} else {
			b.WriteString(label)
		}
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.wiz.Step() == wizard.StepEssay {
		stripped := len(strings.TrimSpace(m.essay.Value()))
		count := fmt.Sprintf("%d characters", stripped)
		if stripped < wizard.EssayMinLength {
			count = styleWarn().Render(count + fmt.Sprintf(" (aim for at least %d)", wizard.EssayMinLength))
		} else {
			count = styleMuted().Render(count)
		}
		b.WriteString("\nMotivation essay\n")
		b.WriteString(m.essay.View())
		b.WriteString("\n")
		b.WriteString(count)
	}
	return b.String()
}

func (m wizardModel) viewDocuments() string {
	var b strings.Builder
	d := m.wiz.Draft()
	b.WriteString("Supporting documents")
	b.WriteString(styleMuted().Render("  (optional, max 10 MB each)"))
	b.WriteString("\n\n")
	for _, doc := range d.Documents {
		bar := progressBar(doc.Progress, 20)
		b.WriteString(fmt.Sprintf("  %-30s %6.1f KB  %s\n", clip(doc.Name, 30), float64(doc.Size)/1024, bar))
	}
	if len(d.Documents) == 0 {
		b.WriteString(styleMuted().Render("  none attached"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.docInput.View())
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("enter: attach   ctrl+d: remove last"))
	return b.String()
}

func progressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if pct >= 100 {
		return styleOK().Render(bar + " ready")
	}
	return styleWarn().Render(fmt.Sprintf("%s %d%%", bar, pct))
}

func (m wizardModel) viewReview() string {
	d := m.wiz.Draft()
	var b strings.Builder

	section := func(title string, rows [][2]string) {
		b.WriteString(styleHeading().Render(title))
		b.WriteString("\n")
		for _, r := range rows {
			val := r[1]
			if val == "" {
				val = styleMuted().Render("—")
			}
			b.WriteString(fmt.Sprintf("  %-22s %s\n", r[0], val))
		}
		b.WriteString("\n")
	}

	section("Personal", [][2]string{
		{"Full name", d.FullName},
		{"Date of birth", d.DateOfBirth},
		{"Nationality", d.Nationality},
		{"Email", d.Email},
		{"Phone", d.PhoneNumber},
	})
	section("Academic", [][2]string{
		{"School", d.CurrentSchool},
		{"Level", string(d.AcademicLevel)},
		{"Major", d.IntendedMajor},
		{"Countries", strings.Join(d.TargetCountries, ", ")},
	})
	section("Application", [][2]string{
		{"Documents", fmt.Sprintf("%d attached", len(d.Documents))},
		{"Essay", fmt.Sprintf("%d characters", len(d.MotivationEssay))},
		{"Financial readiness", string(d.FinancialReadiness)},
	})

	problems := wizard.ValidateStep(d, wizard.StepReview)
	if len(problems) > 0 {
		b.WriteString(styleHeading().Render("Checks"))
		b.WriteString("\n")
		for _, p := range problems {
			if p.Advisory {
				b.WriteString(styleWarn().Render("  ~ " + p.Field + ": " + p.Msg))
			} else {
				b.WriteString(styleError().Render("  ! " + p.Field + ": " + p.Msg))
			}
			b.WriteString("\n")
		}
	}
	if e := m.wiz.Err(); e != "" {
		b.WriteString("\n")
		b.WriteString(styleError().Render(e))
		b.WriteString("\n")
	}
	return b.String()
}
