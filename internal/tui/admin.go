package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"upi-cli/internal/export"
	"upi-cli/internal/model"
	"upi-cli/internal/statusutil"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func statusStyle(s model.ApplicationStatus) lipgloss.Style {
	switch s {
	case model.ApplicationAccepted:
		return styleOK()
	case model.ApplicationRejected:
		return styleError()
	case model.ApplicationReviewing:
		return styleWarn()
	default:
		return styleMuted()
	}
}

func (m appModel) visibleApps() []model.Application {
	all := m.regs.Applications()
	if m.adminFilter == "" {
		return all
	}
	q := strings.ToLower(m.adminFilter)
	out := make([]model.Application, 0, len(all))
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.FullName), q) ||
			strings.Contains(strings.ToLower(a.Email), q) ||
			strings.Contains(strings.ToLower(a.Nationality), q) {
			out = append(out, a)
		}
	}
	return out
}

func (m appModel) selectedApp() *model.Application {
	apps := m.visibleApps()
	if m.adminIdx < 0 || m.adminIdx >= len(apps) {
		return nil
	}
	a := apps[m.adminIdx]
	return &a
}

func (m appModel) updateAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.adminSearching = true
		m.adminSearch.SetValue(m.adminFilter)
		m.adminSearch.Focus()
		return m, nil
	case "r":
		return m, m.loadAppsCmd()
	case "j", "down":
		if m.adminIdx < len(m.visibleApps())-1 {
			m.adminIdx++
		}
		return m, nil
	case "k", "up":
		if m.adminIdx > 0 {
			m.adminIdx--
		}
		return m, nil
	case "s":
		if a := m.selectedApp(); a != nil {
			// Cycle from the confirmed status, never a guessed one.
			return m, m.setStatusCmd(a.ID, statusutil.NextApplicationStatus(a.Status))
		}
		return m, nil
	case "d":
		if m.selectedApp() != nil {
			m.confirmDelete = true
			m.confirmFocus = confirmFocusCancel
		}
		return m, nil
	case "e":
		return m, m.exportCmd()
	}
	return m, nil
}

func (m appModel) updateAdminSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.adminSearching = false
		m.adminSearch.Blur()
		m.adminFilter = strings.TrimSpace(m.adminSearch.Value())
		m.adminIdx = 0
		return m, nil
	case "esc":
		m.adminSearching = false
		m.adminSearch.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.adminSearch, cmd = m.adminSearch.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "esc":
		m.confirmDelete = false
		return m, nil
	case "enter":
		m.confirmDelete = false
		if m.confirmFocus != confirmFocusConfirm {
			return m, nil
		}
		if a := m.selectedApp(); a != nil {
			return m, m.deleteAppCmd(a.ID)
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) exportCmd() tea.Cmd {
	apps := m.regs.Applications()
	return func() tea.Msg {
		name := export.Filename(time.Now())
		f, err := os.Create(name)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := export.Applications(f, apps); err != nil {
			f.Close()
			return exportDoneMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{file: name}
	}
}

func (m appModel) viewAdmin() string {
	header := styleHeading().Render("Applications")
	apps := m.visibleApps()
	header += styleMuted().Render(fmt.Sprintf("   %d shown", len(apps)))
	if m.adminFilter != "" {
		header += styleMuted().Render("   filter: " + m.adminFilter)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	if m.adminSearching {
		b.WriteString(m.adminSearch.View())
		b.WriteString("\n")
	}
	if m.regs.Loading() {
		b.WriteString(styleMuted().Render("loading..."))
		b.WriteString("\n")
	}

	width := m.width - 2
	if width < 40 {
		width = 40
	}
	selStyle := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)

	for i, a := range apps {
		row := fmt.Sprintf("%-28s %-28s %-14s %s",
			clip(a.FullName, 28), clip(a.Email, 28), clip(a.Nationality, 14),
			statusStyle(a.Status).Render(string(a.Status)))
		if w := xansi.StringWidth(row); w < width {
			row += strings.Repeat(" ", width-w)
		} else if w > width {
			row = xansi.Cut(row, 0, width)
		}
		if i == m.adminIdx {
			row = selStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	if len(apps) == 0 {
		b.WriteString(styleMuted().Render("no applications"))
		b.WriteString("\n")
	}
	return b.String()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
