package tui

import (
	"upi-cli/internal/api"
	"upi-cli/internal/store"
	"upi-cli/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
)

// Options wires the TUI to the API client and local state.
type Options struct {
	Client     *api.Client
	State      store.StateStore
	GatePolicy wizard.GatePolicy
	DateFormat string
}

// Run starts the main interactive TUI (blog browser + admin table).
func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// RunWizard starts the application wizard, resuming any autosaved draft.
func RunWizard(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newWizardModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
