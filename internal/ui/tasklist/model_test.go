package tasklist_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todos/internal/keys"
	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/todos"
	"github.com/nhle/todos/internal/ui/tasklist"
)

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func rows(ids ...string) []tasklist.Row {
	out := make([]tasklist.Row, len(ids))
	for i, id := range ids {
		out[i] = tasklist.Row{ID: id, Text: id}
	}
	return out
}

func action(t *testing.T, cmd tea.Cmd) todos.Action {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(tasklist.ActionMsg)
	require.True(t, ok, "expected an ActionMsg")
	return msg.Action
}

func newTasks(ids ...string) tasklist.Model {
	m := tasklist.NewTasks(keys.DefaultKeyMap(), 80, 24)
	m.SetRows(rows(ids...))
	return m
}

func TestTaskList_Verbs(t *testing.T) {
	tests := []struct {
		key  string
		want todos.Action
	}{
		{"x", todos.RouteTask{ID: "a", Action: todos.ToggleTaskChecked{}}},
		{" ", todos.RouteTask{ID: "a", Action: todos.ToggleTaskChecked{}}},
		{"d", todos.RemoveTasks{Offsets: []int{0}}},
		{"J", todos.MoveTasks{From: []int{0}, To: 2}},
		{"C", todos.ClearCompletedTasks{}},
		{"X", todos.ClearTasks{}},
		{"n", todos.AddTask{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newTasks("a", "b", "c")
			_, cmd := m.Update(press(tt.key))
			assert.Equal(t, tt.want, action(t, cmd))
		})
	}
}

func TestTaskList_MoveUpFromSecondRow(t *testing.T) {
	m := newTasks("a", "b", "c")
	m, _ = m.Update(press("down"))

	_, cmd := m.Update(press("K"))

	assert.Equal(t, todos.MoveTasks{From: []int{1}, To: 0}, action(t, cmd))
}

func TestTaskList_MoveOutOfBoundsDoesNothing(t *testing.T) {
	m := newTasks("a", "b")

	_, cmd := m.Update(press("K"))
	assert.Nil(t, cmd)

	m, _ = m.Update(press("down"))
	_, cmd = m.Update(press("J"))
	assert.Nil(t, cmd)
}

func TestTaskList_EditRenamesVerbatim(t *testing.T) {
	m := newTasks("a")

	m, _ = m.Update(press("e"))
	require.True(t, m.Editing())
	m, _ = m.Update(press("!"))
	m, cmd := m.Update(press("enter"))

	assert.False(t, m.Editing())
	assert.Equal(t, todos.RouteTask{ID: "a", Action: todos.SetTaskTitle{Text: "a!"}}, action(t, cmd))
}

func TestTaskList_EditEscCancels(t *testing.T) {
	m := newTasks("a")

	m, _ = m.Update(press("e"))
	m, cmd := m.Update(press("esc"))

	assert.False(t, m.Editing())
	assert.Nil(t, cmd)
}

func TestTaskList_NewRowOpensForEditing(t *testing.T) {
	m := newTasks("a")

	m, _ = m.Update(press("n"))
	assert.False(t, m.Editing())

	m.SetRows(append(rows("new"), rows("a")...))

	assert.True(t, m.Editing())
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "new", sel.ID)
}

func TestTaskList_SelectionFollowsRow(t *testing.T) {
	m := newTasks("a", "b", "c")
	m, _ = m.Update(press("down"))

	m.SetRows(rows("b", "a", "c"))

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", sel.ID)
}

func TestTaskList_OpenAndBack(t *testing.T) {
	m := newTasks("a")

	_, cmd := m.Update(press("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, tasklist.OpenMsg{ID: "a"}, cmd())

	_, cmd = m.Update(press("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, tasklist.BackMsg{}, cmd())
}

func TestSubTaskList_RoutesThroughTask(t *testing.T) {
	m := tasklist.NewSubTasks("T", "groceries", keys.DefaultKeyMap(), 80, 24)
	m.SetRows(rows("s1", "s2"))

	_, cmd := m.Update(press("x"))
	assert.Equal(t, todos.RouteTask{
		ID:     "T",
		Action: todos.RouteSubTask{ID: "s1", Action: todos.ToggleSubTaskChecked{}},
	}, action(t, cmd))

	_, cmd = m.Update(press("n"))
	assert.Equal(t, todos.RouteTask{ID: "T", Action: todos.AddSubTask{}}, action(t, cmd))

	_, cmd = m.Update(press("d"))
	assert.Equal(t, todos.RouteTask{ID: "T", Action: todos.RemoveSubTasks{Offsets: []int{0}}}, action(t, cmd))

	_, cmd = m.Update(press("enter"))
	assert.Nil(t, cmd, "sub-tasks have no children to open")
}

func TestTaskRows(t *testing.T) {
	got := tasklist.TaskRows([]model.Task{{
		ID:      "t",
		Title:   "groceries",
		Checked: true,
		SubTasks: []model.SubTask{
			{ID: "s1", Checked: true},
			{ID: "s2"},
		},
	}})

	assert.Equal(t, []tasklist.Row{{ID: "t", Text: "groceries", Checked: true, Done: 1, Total: 2}}, got)
}
