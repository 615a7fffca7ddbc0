package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todos/internal/theme"
)

// Known commands.
const (
	Clear          = "clear"
	ClearCompleted = "clear completed"
	Sort           = "sort"
	Settings       = "settings"
	Remind         = "remind"
	Quit           = "quit"
)

// Commands lists every command the palette completes.
var Commands = []string{ClearCompleted, Clear, Sort, Settings, Remind, Quit}

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// CancelMsg is emitted when the user closes the palette.
type CancelMsg struct{}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	err    string
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Commands)
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Normalize folds case and whitespace and resolves a few aliases. It
// returns "" for an unknown command.
func Normalize(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	switch s {
	case "q", "exit":
		return Quit
	case "cc":
		return ClearCompleted
	}
	for _, c := range Commands {
		if s == c {
			return c
		}
	}
	return ""
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			raw := strings.TrimSpace(m.input.Value())
			if raw == "" {
				return m, nil
			}
			name := Normalize(raw)
			if name == "" {
				m.err = "unknown command: " + raw
				return m, nil
			}
			m.Reset()
			return m, func() tea.Msg { return CommandMsg(name) }

		case "esc":
			m.Reset()
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	m.err = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Reset clears the input and any error.
func (m *Model) Reset() {
	m.input.Reset()
	m.err = ""
}

// View renders the command palette.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Command Palette")

	parts := []string{title, m.input.View()}
	if m.err != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.err))
	}
	hint := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		MarginTop(1).
		Render(strings.Join(Commands, " · "))
	parts = append(parts, hint)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
