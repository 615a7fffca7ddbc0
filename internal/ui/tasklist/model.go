package tasklist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todos/internal/keys"
	"github.com/nhle/todos/internal/theme"
	"github.com/nhle/todos/internal/todos"
)

// ActionMsg carries an action for the store.
type ActionMsg struct {
	Action todos.Action
}

// OpenMsg is sent when the user opens a row's sub-tasks.
type OpenMsg struct {
	ID string
}

// BackMsg is sent when the user leaves the list.
type BackMsg struct{}

// Model is an editable checklist. It renders rows handed to it by
// SetRows and turns key presses into actions through its Verbs; it never
// changes rows itself.
type Model struct {
	list     list.Model
	keys     *keys.KeyMap
	verbs    Verbs
	openable bool
	empty    string

	editing bool
	editID  string
	input   textinput.Model

	// pendingNew is set after an Add until the new row shows up; known
	// holds the row ids present when it was sent.
	pendingNew bool
	known      map[string]bool

	width  int
	height int
}

// New creates a checklist titled title.
func New(title string, verbs Verbs, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, RowDelegate{Placeholder: "untitled"}, width, height-2)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Width = width - 4

	return Model{
		list:   l,
		keys:   k,
		verbs:  verbs,
		empty:  "Nothing here yet.\n\nPress n to add one.",
		input:  ti,
		width:  width,
		height: height,
	}
}

// NewTasks creates the top-level task list.
func NewTasks(k *keys.KeyMap, width, height int) Model {
	m := New("Todos", TaskVerbs(), k, width, height)
	m.openable = true
	m.SetItemName("task", "tasks")
	return m
}

// NewSubTasks creates the sub-task list of the task with taskID.
func NewSubTasks(taskID, title string, k *keys.KeyMap, width, height int) Model {
	m := New(title, SubTaskVerbs(taskID), k, width, height)
	m.SetItemName("sub-task", "sub-tasks")
	m.list.SetDelegate(RowDelegate{Placeholder: "empty sub-task"})
	m.empty = "No sub-tasks.\n\nPress n to add one, esc to go back."
	return m
}

// SetItemName sets the nouns shown in the list status bar.
func (m *Model) SetItemName(singular, plural string) {
	m.list.SetStatusBarItemName(singular, plural)
}

// SetTitle replaces the list title.
func (m *Model) SetTitle(title string) {
	m.list.Title = title
}

// Editing reports whether the text input has focus. Global keys must not
// be intercepted while it does.
func (m Model) Editing() bool {
	return m.editing
}

// Rows returns the rows currently shown.
func (m Model) Rows() []Row {
	items := m.list.Items()
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		if r, ok := it.(Row); ok {
			rows = append(rows, r)
		}
	}
	return rows
}

// Selected returns the focused row.
func (m Model) Selected() (Row, bool) {
	r, ok := m.list.SelectedItem().(Row)
	return r, ok
}

// SetRows replaces the rows, keeping the focused row focused if it still
// exists. A row added through this list is focused and opened for
// editing.
func (m *Model) SetRows(rows []Row) tea.Cmd {
	selectedID := ""
	if r, ok := m.Selected(); ok {
		selectedID = r.ID
	}

	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	cmd := m.list.SetItems(items)

	if m.pendingNew {
		for i, r := range rows {
			if !m.known[r.ID] {
				m.pendingNew = false
				m.known = nil
				m.list.Select(i)
				return tea.Batch(cmd, m.startEdit(r))
			}
		}
	}

	if m.editing && indexOf(rows, m.editID) < 0 {
		m.stopEdit()
	}

	if i := indexOf(rows, selectedID); i >= 0 {
		m.list.Select(i)
	} else if n := len(rows); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	return cmd
}

// Update handles messages for the checklist.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.editing {
			return m.handleEditKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleEditKeys processes key input while editing a row.
func (m Model) handleEditKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		id, text := m.editID, m.input.Value()
		m.stopEdit()
		if m.verbs.Rename == nil {
			return m, nil
		}
		return m, emit(m.verbs.Rename(id, text))

	case "esc":
		m.stopEdit()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input while browsing.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	row, hasRow := m.Selected()
	idx := m.list.Index()
	n := len(m.list.Items())

	switch {
	case key.Matches(msg, m.keys.Toggle):
		if hasRow && m.verbs.Toggle != nil {
			return m, emit(m.verbs.Toggle(row.ID))
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		if m.verbs.Add == nil {
			return m, nil
		}
		m.pendingNew = true
		m.known = make(map[string]bool, n)
		for _, r := range m.Rows() {
			m.known[r.ID] = true
		}
		return m, emit(m.verbs.Add())

	case key.Matches(msg, m.keys.Edit):
		if hasRow {
			return m, m.startEdit(row)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if hasRow && m.verbs.Remove != nil {
			return m, emit(m.verbs.Remove([]int{idx}))
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		if hasRow && idx > 0 && m.verbs.Move != nil {
			return m, emit(m.verbs.Move([]int{idx}, idx-1))
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveDown):
		// The target offset refers to the order before the move, so
		// moving one step down lands before the row two below.
		if hasRow && idx < n-1 && m.verbs.Move != nil {
			return m, emit(m.verbs.Move([]int{idx}, idx+2))
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearCompleted):
		if m.verbs.ClearCompleted != nil {
			return m, emit(m.verbs.ClearCompleted())
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearAll):
		if m.verbs.ClearAll != nil {
			return m, emit(m.verbs.ClearAll())
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if hasRow && m.openable {
			return m, func() tea.Msg { return OpenMsg{ID: row.ID} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) startEdit(r Row) tea.Cmd {
	m.editing = true
	m.editID = r.ID
	m.input.SetValue(r.Text)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) stopEdit() {
	m.editing = false
	m.editID = ""
	m.input.Blur()
	m.input.Reset()
}

// View renders the checklist.
func (m Model) View() string {
	if m.editing {
		editBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.input.View())
		return lipgloss.JoinVertical(lipgloss.Left, editBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(m.empty)
	}

	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.input.Width = width - 4
}

func emit(a todos.Action) tea.Cmd {
	return func() tea.Msg { return ActionMsg{Action: a} }
}

func indexOf(rows []Row, id string) int {
	if id == "" {
		return -1
	}
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
