package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todos/internal/theme"
)

// Model is the help overlay: every key binding plus a short status
// block about reminders.
type Model struct {
	bindings help.KeyMap
	help     help.Model
	status   []string
	width    int
	height   int
}

// New creates a help overlay listing bindings.
func New(bindings help.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	h.Width = width - 4
	return Model{
		bindings: bindings,
		help:     h,
		width:    width,
		height:   height,
	}
}

// SetStatus replaces the status lines shown under the bindings.
func (m *Model) SetStatus(lines ...string) {
	m.status = lines
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Keyboard Shortcuts")

	parts := []string{title, m.help.View(m.bindings)}
	if len(m.status) > 0 {
		status := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			MarginTop(1).
			Render(lipgloss.JoinVertical(lipgloss.Left, m.status...))
		parts = append(parts, status)
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
