package permission

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todos/internal/theme"
)

// AnsweredMsg is sent once the prompt is closed.
type AnsweredMsg struct {
	Granted   bool
	Dismissed bool
}

// Model asks one Request.
type Model struct {
	req    Request
	allow  *bool
	form   *huh.Form
	width  int
	height int
}

// New creates a prompt for req.
func New(req Request, width, height int) Model {
	allow := true
	m := Model{req: req, allow: &allow, width: width, height: height}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow todos to remind you?").
				Description("Reminders for open tasks use " + req.Options.String() + ".").
				Affirmative("Allow").
				Negative("Don't allow").
				Value(m.allow),
		),
	).WithWidth(m.formWidth())
	return m
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w < 20 {
		return 20
	}
	return w
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the prompt and answers the request when
// the form closes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		granted := *m.allow
		m.req.Answer(granted)
		return m, func() tea.Msg { return AnsweredMsg{Granted: granted} }

	case huh.StateAborted:
		m.req.Dismiss()
		return m, func() tea.Msg { return AnsweredMsg{Dismissed: true} }
	}

	return m, cmd
}

// View renders the prompt.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Notifications")

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.form.View()))
}

// SetSize updates the prompt dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form = m.form.WithWidth(m.formWidth())
}
