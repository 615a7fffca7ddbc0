package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/notify"
	"github.com/nhle/todos/internal/theme"
)

// SavedMsg is sent when the user submits the form.
type SavedMsg struct {
	Config        *model.AppConfig
	Authorization notify.Authorization
}

// CancelMsg is sent when the user leaves without saving.
type CancelMsg struct{}

// Values holds the editable fields as the form sees them.
type Values struct {
	Title      string
	Subtitle   string
	DelaySec   string
	DebounceMs string
	Allow      bool
}

// ValuesFrom fills the form fields from cfg and the stored decision.
func ValuesFrom(cfg *model.AppConfig, auth notify.Authorization) Values {
	return Values{
		Title:      cfg.Reminder.Title,
		Subtitle:   cfg.Reminder.Subtitle,
		DelaySec:   strconv.Itoa(cfg.Reminder.DelaySec),
		DebounceMs: strconv.Itoa(cfg.Sort.DebounceMs),
		Allow:      auth == notify.Granted,
	}
}

// Apply returns a copy of cfg with the form fields written into it.
func (v Values) Apply(cfg *model.AppConfig) (*model.AppConfig, error) {
	delay, err := parsePositive("reminder delay", v.DelaySec)
	if err != nil {
		return nil, err
	}
	debounce, err := parsePositive("sort delay", v.DebounceMs)
	if err != nil {
		return nil, err
	}

	out := *cfg
	out.Reminder.Title = strings.TrimSpace(v.Title)
	out.Reminder.Subtitle = strings.TrimSpace(v.Subtitle)
	out.Reminder.DelaySec = delay
	out.Sort.DebounceMs = debounce
	return &out, nil
}

// Authorization converts the toggle into a stored decision.
func (v Values) Authorization() notify.Authorization {
	if v.Allow {
		return notify.Granted
	}
	return notify.Denied
}

func parsePositive(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", name)
	}
	return n, nil
}

func validatePositive(name string) func(string) error {
	return func(s string) error {
		_, err := parsePositive(name, s)
		return err
	}
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}

// Model edits the reminder template, the sort delay and the notification
// permission.
type Model struct {
	cfg    *model.AppConfig
	values *Values
	form   *huh.Form
	width  int
	height int
}

// New creates a settings form seeded from cfg.
func New(cfg *model.AppConfig, auth notify.Authorization, width, height int) Model {
	v := ValuesFrom(cfg, auth)
	m := Model{
		cfg:    cfg,
		values: &v,
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder title").
				Value(&m.values.Title).
				Validate(validateRequired("Title")),
			huh.NewInput().
				Title("Reminder text").
				Value(&m.values.Subtitle).
				Validate(validateRequired("Text")),
			huh.NewInput().
				Title("Remind after (seconds)").
				Description("How long after leaving the app with open tasks").
				Value(&m.values.DelaySec).
				Validate(validatePositive("reminder delay")),
			huh.NewInput().
				Title("Sort delay (ms)").
				Description("Checked tasks move to the bottom after this pause").
				Value(&m.values.DebounceMs).
				Validate(validatePositive("sort delay")),
			huh.NewConfirm().
				Title("Allow reminders?").
				Affirmative("Allow").
				Negative("Don't allow").
				Value(&m.values.Allow),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
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

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		cfg, err := m.values.Apply(m.cfg)
		if err != nil {
			// Validation already ran per field; rebuild and let the user retry.
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		auth := m.values.Authorization()
		return m, func() tea.Msg { return SavedMsg{Config: cfg, Authorization: auth} }

	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Settings")

	note := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		MarginTop(1).
		Render("Reminder and sort changes apply the next time todos starts.")

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.form.View(), note))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form = m.form.WithWidth(m.formWidth())
}
