package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/todos/internal/keys"
	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/notify"
	"github.com/nhle/todos/internal/todos"
	"github.com/nhle/todos/internal/ui"
	"github.com/nhle/todos/internal/ui/command"
	helpview "github.com/nhle/todos/internal/ui/help"
	"github.com/nhle/todos/internal/ui/permission"
	"github.com/nhle/todos/internal/ui/settings"
	"github.com/nhle/todos/internal/ui/tasklist"
)

// authorizationMsg carries the stored notification decision.
type authorizationMsg struct {
	auth notify.Authorization
	err  error
}

// settingsAppliedMsg is sent after the settings form has been persisted.
type settingsAppliedMsg struct {
	cfg *model.AppConfig
	err error
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewTasks ViewState = iota
	ViewSubTasks
	ViewHelp
	ViewCommand
	ViewSettings
	ViewPermission
)

// Deps are the collaborators of the root model. Store and Config are
// required; the rest may be nil.
type Deps struct {
	Store      *todos.Store
	Center     *notify.Center
	Poller     *notify.Poller
	Prompter   *permission.Prompter
	Opener     *SettingsOpener
	Config     *model.AppConfig
	ConfigPath string
	Logger     *log.Logger
}

// Model is the root Bubble Tea model. It renders store snapshots and
// turns user input into actions; it never edits tasks itself.
type Model struct {
	deps Deps
	feed *Feed

	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	state     todos.State
	subTaskID string

	tasks          tasklist.Model
	subTasks       tasklist.Model
	helpView       helpview.Model
	commandView    command.Model
	settingsView   settings.Model
	permissionView permission.Model

	auth     notify.Authorization
	banner   string
	ready    bool
	quitting bool
}

// New creates the root model over d.Store.
func New(d Deps) Model {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	k := keys.DefaultKeyMap()
	feed := NewFeed(d.Store)

	m := Model{
		deps:        d,
		feed:        feed,
		currentView: ViewTasks,
		layout:      ui.NewLayout(80, 24),
		keys:        k,
		state:       feed.Latest(),
		tasks:       tasklist.NewTasks(k, 80, 22),
		helpView:    helpview.New(k, 80, 22),
		commandView: command.New(80, 22),
	}
	m.tasks.SetRows(tasklist.TaskRows(m.state.Tasks))
	return m
}

// Close stops listening to the store and releases the background bridges.
func (m Model) Close() {
	m.feed.Close()
	if m.deps.Prompter != nil {
		m.deps.Prompter.Close()
	}
	if m.deps.Opener != nil {
		m.deps.Opener.Close()
	}
}

// Init asks for notification permission and starts every listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.feed.Wait(),
		m.sendCmd(todos.RequestNotificationPermission{}),
		m.loadAuthorization(),
	}
	if m.deps.Poller != nil {
		cmds = append(cmds, m.deps.Poller.WaitForDelivery())
	}
	if m.deps.Prompter != nil {
		cmds = append(cmds, m.deps.Prompter.WaitForRequest())
	}
	if m.deps.Opener != nil {
		cmds = append(cmds, m.deps.Opener.Wait())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resize()
		return m.updateActiveView(msg)

	case stateMsg:
		m.state = msg.state
		return m, tea.Batch(m.refresh(), m.feed.Wait())

	case tasklist.ActionMsg:
		m.deps.Store.Send(msg.Action)
		return m, nil

	case tasklist.OpenMsg:
		return m, m.openSubTasks(msg.ID)

	case tasklist.BackMsg:
		if m.currentView == ViewSubTasks {
			m.currentView = ViewTasks
			m.subTaskID = ""
		}
		return m, nil

	case notify.DeliveredMsg:
		if msg.Err != nil {
			m.setBanner("Reminder failed: " + msg.Err.Error())
		} else {
			m.setBanner(fmt.Sprintf("Reminder: %s · %s", msg.Reminder.Title, msg.Reminder.Subtitle))
		}
		return m, m.deps.Poller.WaitForDelivery()

	case permission.RequestMsg:
		m.enter(ViewPermission)
		m.permissionView = permission.New(msg.Request, m.layout.ContentWidth(), m.layout.ContentHeight())
		return m, m.permissionView.Init()

	case permission.AnsweredMsg:
		m.currentView = m.previousView
		return m, tea.Batch(m.loadAuthorization(), m.deps.Prompter.WaitForRequest())

	case authorizationMsg:
		if msg.err != nil {
			m.deps.Logger.Error("reading notification authorization", "err", msg.err)
			return m, nil
		}
		m.auth = msg.auth
		return m, nil

	case openSettingsMsg:
		m.enter(ViewSettings)
		m.settingsView = settings.New(m.deps.Config, m.auth, m.layout.ContentWidth(), m.layout.ContentHeight())
		return m, tea.Batch(m.settingsView.Init(), m.deps.Opener.Wait())

	case settings.SavedMsg:
		m.currentView = m.previousView
		return m, m.saveSettings(msg)

	case settings.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case settingsAppliedMsg:
		if msg.err != nil {
			m.deps.Logger.Error("saving settings", "err", msg.err)
			m.setBanner("Could not save settings: " + msg.err.Error())
			return m, nil
		}
		m.deps.Config = msg.cfg
		m.setBanner("Settings saved")
		return m, m.loadAuthorization()

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.ResumeMsg:
		// Back in the foreground.
		m.deps.Store.Send(todos.RequestNotificationPermission{})
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.listFocused() && !m.activeList().Editing() {
			m.setBanner("")
			if next, cmd, ok := m.handleGlobalKeys(msg); ok {
				return next, cmd
			}
		}
		if m.currentView == ViewHelp {
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
			}
			return m, nil
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys handles the keys that work in both list views.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		next, cmd := m.quit()
		return next, cmd, true

	case key.Matches(msg, m.keys.Suspend):
		// Leaving the foreground arms the reminder.
		m.deps.Store.Send(todos.ScheduleCompletionReminder{})
		return m, tea.Suspend, true

	case key.Matches(msg, m.keys.Help):
		m.helpView.SetStatus(m.helpStatus()...)
		m.enter(ViewHelp)
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.enter(ViewCommand)
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Settings):
		m.deps.Store.Send(todos.OpenSystemSettings{})
		return m, nil, true
	}
	return m, nil, false
}

// executeCommand runs a command palette entry.
func (m Model) executeCommand(name string) (tea.Model, tea.Cmd) {
	switch name {
	case command.Clear:
		m.deps.Store.Send(todos.ClearTasks{})
	case command.ClearCompleted:
		m.deps.Store.Send(todos.ClearCompletedTasks{})
	case command.Sort:
		m.deps.Store.Send(todos.SortCompletedTasks{})
	case command.Settings:
		m.deps.Store.Send(todos.OpenSystemSettings{})
	case command.Remind:
		m.deps.Store.Send(todos.ScheduleCompletionReminder{})
		m.setBanner("Reminder updated")
	case command.Quit:
		return m.quit()
	}
	return m, nil
}

// quit arms the reminder and exits once every running effect is done.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	m.quitting = true

	// Effects still waiting on the UI would block Wait forever.
	if m.deps.Prompter != nil {
		m.deps.Prompter.Close()
	}
	if m.deps.Opener != nil {
		m.deps.Opener.Close()
	}
	s := m.deps.Store
	s.Send(todos.ScheduleCompletionReminder{})

	return m, func() tea.Msg {
		s.Wait()
		return tea.Quit()
	}
}

// enter switches to v, remembering the list view to return to.
func (m *Model) enter(v ViewState) {
	if m.listFocused() {
		m.previousView = m.currentView
	}
	m.currentView = v
}

func (m Model) listFocused() bool {
	return m.currentView == ViewTasks || m.currentView == ViewSubTasks
}

func (m *Model) activeList() *tasklist.Model {
	if m.currentView == ViewSubTasks {
		return &m.subTasks
	}
	return &m.tasks
}

// openSubTasks shows the sub-task list of the task with id.
func (m *Model) openSubTasks(id string) tea.Cmd {
	task, ok := m.state.Task(id)
	if !ok {
		return nil
	}
	m.subTaskID = id
	m.subTasks = tasklist.NewSubTasks(id, subTaskTitle(task), m.keys,
		m.layout.ContentWidth(), m.layout.ContentHeight())
	m.currentView = ViewSubTasks
	return m.subTasks.SetRows(tasklist.SubTaskRows(task.SubTasks))
}

// refresh pushes the current state into the lists.
func (m *Model) refresh() tea.Cmd {
	cmds := []tea.Cmd{m.tasks.SetRows(tasklist.TaskRows(m.state.Tasks))}

	if m.subTaskID != "" {
		task, ok := m.state.Task(m.subTaskID)
		if !ok {
			// The task was removed while its sub-tasks were shown.
			m.subTaskID = ""
			if m.currentView == ViewSubTasks {
				m.currentView = ViewTasks
			}
			if m.previousView == ViewSubTasks {
				m.previousView = ViewTasks
			}
		} else {
			m.subTasks.SetTitle(subTaskTitle(task))
			cmds = append(cmds, m.subTasks.SetRows(tasklist.SubTaskRows(task.SubTasks)))
		}
	}
	return tea.Batch(cmds...)
}

func subTaskTitle(t model.Task) string {
	if t.Title == "" {
		return "untitled"
	}
	return t.Title
}

// setBanner shows text above the content; an empty text hides it.
func (m *Model) setBanner(text string) {
	if (text == "") == (m.banner == "") {
		m.banner = text
		return
	}
	m.banner = text
	m.resize()
}

// resize lays out every view for the current terminal size.
func (m *Model) resize() {
	m.layout = m.layout.WithBanner(m.banner != "")
	w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
	m.tasks.SetSize(w, h)
	if m.subTaskID != "" {
		m.subTasks.SetSize(w, h)
	}
	m.helpView.SetSize(w, h)
	m.commandView.SetSize(w, h)
	if m.currentView == ViewSettings {
		m.settingsView.SetSize(w, h)
	}
	if m.currentView == ViewPermission {
		m.permissionView.SetSize(w, h)
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewTasks:
		m.tasks, cmd = m.tasks.Update(msg)
	case ViewSubTasks:
		m.subTasks, cmd = m.subTasks.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewPermission:
		m.permissionView, cmd = m.permissionView.Update(msg)
	}

	return m, cmd
}

// sendCmd sends a outside of Update.
func (m Model) sendCmd(a todos.Action) tea.Cmd {
	s := m.deps.Store
	return func() tea.Msg {
		s.Send(a)
		return nil
	}
}

func (m Model) loadAuthorization() tea.Cmd {
	c := m.deps.Center
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		auth, err := c.Authorization(context.Background())
		return authorizationMsg{auth: auth, err: err}
	}
}

func (m Model) saveSettings(msg settings.SavedMsg) tea.Cmd {
	path, c := m.deps.ConfigPath, m.deps.Center
	return func() tea.Msg {
		if err := model.SaveConfig(path, msg.Config); err != nil {
			return settingsAppliedMsg{err: err}
		}
		if c != nil {
			if err := c.SetAuthorization(context.Background(), msg.Authorization); err != nil {
				return settingsAppliedMsg{err: err}
			}
		}
		return settingsAppliedMsg{cfg: msg.Config}
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.quitting {
		return ""
	}

	header := m.layout.RenderHeader("Todos", m.status())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.banner, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTasks:
		return m.tasks.View()
	case ViewSubTasks:
		return m.subTasks.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewPermission:
		return m.permissionView.View()
	default:
		return ""
	}
}

// status summarizes progress and the reminder permission for the header.
func (m Model) status() string {
	done := len(m.state.Tasks) - m.state.Incomplete()
	return fmt.Sprintf("%d/%d done · reminders %s", done, len(m.state.Tasks), authLabel(m.auth))
}

func authLabel(a notify.Authorization) string {
	switch a {
	case notify.Granted:
		return "on"
	case notify.Denied:
		return "off"
	default:
		return "not set"
	}
}

func (m Model) helpStatus() []string {
	return []string{
		"Reminders: " + authLabel(m.auth),
		fmt.Sprintf("Open tasks: %d", m.state.Incomplete()),
		"Leaving with ctrl+z or q schedules a reminder while tasks are open.",
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.listFocused() && m.activeList().Editing() {
		return "enter save | esc cancel"
	}

	switch m.currentView {
	case ViewSubTasks:
		return "n new | x check | e edit | d delete | J/K move | esc back | ? help"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewSettings:
		return "enter next | esc cancel"
	case ViewPermission:
		return "←/→ choose | enter confirm | esc later"
	default:
		return "n new | x check | enter open | : command | s settings | ? help | q quit"
	}
}
