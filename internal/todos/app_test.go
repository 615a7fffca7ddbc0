package todos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todos/internal/ids"
	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/todos"
	"github.com/nhle/todos/tests/testutil"
)

func taskIDs(s todos.State) []string {
	out := make([]string, len(s.Tasks))
	for i, t := range s.Tasks {
		out[i] = t.ID
	}
	return out
}

func abc() todos.State {
	return todos.NewState(
		model.Task{ID: "A", Title: "a"},
		model.Task{ID: "B", Title: "b"},
		model.Task{ID: "C", Title: "c", Checked: true},
	)
}

func toggle(id string) todos.Action {
	return todos.RouteTask{ID: id, Action: todos.ToggleTaskChecked{}}
}

func TestReduce_AddTaskInsertsAtTop(t *testing.T) {
	state := todos.NewState()
	env := todos.Environment{NewID: ids.Fixed("X")}

	eff := todos.Reduce(&state, todos.AddTask{}, env)

	assert.Nil(t, eff)
	require.Len(t, state.Tasks, 1)
	assert.Equal(t, model.Task{ID: "X"}, state.Tasks[0])

	env.NewID = ids.Fixed("Y")
	todos.Reduce(&state, todos.AddTask{}, env)
	assert.Equal(t, []string{"Y", "X"}, taskIDs(state))
}

func TestReduce_RemoveTasks(t *testing.T) {
	state := todos.NewState(model.Task{ID: "p"}, model.Task{ID: "q"}, model.Task{ID: "r"})

	eff := todos.Reduce(&state, todos.RemoveTasks{Offsets: []int{0}}, todos.Environment{})

	assert.Nil(t, eff)
	assert.Equal(t, []string{"q", "r"}, taskIDs(state))
}

func TestReduce_MoveTasks(t *testing.T) {
	state := abc()

	todos.Reduce(&state, todos.MoveTasks{From: []int{0}, To: 2}, todos.Environment{})

	assert.Equal(t, []string{"B", "A", "C"}, taskIDs(state))
}

func TestReduce_ClearTasks(t *testing.T) {
	state := abc()
	todos.Reduce(&state, todos.ClearCompletedTasks{}, todos.Environment{})
	assert.Equal(t, []string{"A", "B"}, taskIDs(state))

	todos.Reduce(&state, todos.ClearTasks{}, todos.Environment{})
	assert.Empty(t, state.Tasks)
}

func TestReduce_ToggleSchedulesCompletionSort(t *testing.T) {
	state := abc()

	eff := todos.Reduce(&state, toggle("A"), todos.Environment{})

	assert.True(t, state.Tasks[0].Checked)
	assert.Equal(t, []string{"A", "B", "C"}, taskIDs(state), "sorting waits for the debounce")
	assert.Equal(t, todos.Debounce{
		ID:     todos.TaskCompletionID,
		Delay:  time.Second,
		Action: todos.SortCompletedTasks{},
	}, eff)
}

func TestReduce_ToggleUsesConfiguredDebounce(t *testing.T) {
	state := abc()
	state.SortDebounce = 250 * time.Millisecond

	eff := todos.Reduce(&state, toggle("B"), todos.Environment{})

	d, ok := eff.(todos.Debounce)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, d.Delay)
}

func TestReduce_OtherTaskActionsHaveNoEffect(t *testing.T) {
	state := abc()

	eff := todos.Reduce(&state, todos.RouteTask{ID: "A", Action: todos.SetTaskTitle{Text: "new"}}, todos.Environment{})
	assert.Nil(t, eff)
	assert.Equal(t, "new", state.Tasks[0].Title)

	eff = todos.Reduce(&state, todos.RouteTask{ID: "A", Action: todos.AddSubTask{}}, todos.Environment{NewID: ids.Fixed("s")})
	assert.Nil(t, eff)
	assert.Len(t, state.Tasks[0].SubTasks, 1)
}

func TestReduce_RouteToMissingTaskIsNoop(t *testing.T) {
	state := abc()
	before := state.Clone()

	eff := todos.Reduce(&state, toggle("gone"), todos.Environment{})

	assert.Nil(t, eff)
	assert.Equal(t, before, state)
}

func TestReduce_ToggleRoundTripRestoresState(t *testing.T) {
	state := abc()
	before := state.Clone()

	todos.Reduce(&state, toggle("B"), todos.Environment{})
	todos.Reduce(&state, toggle("B"), todos.Environment{})

	assert.Equal(t, before, state)
}

func TestReduce_SortCompletedTasksIsStable(t *testing.T) {
	state := todos.NewState(
		model.Task{ID: "1", Checked: true},
		model.Task{ID: "2"},
		model.Task{ID: "3", Checked: true},
		model.Task{ID: "4"},
	)

	eff := todos.Reduce(&state, todos.SortCompletedTasks{}, todos.Environment{})

	assert.Nil(t, eff)
	assert.Equal(t, []string{"2", "4", "1", "3"}, taskIDs(state))
}

func runEffect(t *testing.T, eff todos.Effect) error {
	t.Helper()
	run, ok := eff.(todos.Run)
	require.True(t, ok, "expected a Run effect, got %T", eff)
	return run.Fn(context.Background())
}

func TestReduce_ScheduleCompletionReminder(t *testing.T) {
	tests := []struct {
		name    string
		tasks   []model.Task
		methods []string
	}{
		{
			name:    "empty list only clears",
			tasks:   nil,
			methods: []string{"RemoveAllPending"},
		},
		{
			name:    "all checked only clears",
			tasks:   []model.Task{{ID: "a", Checked: true}, {ID: "b", Checked: true}},
			methods: []string{"RemoveAllPending"},
		},
		{
			name:    "some unchecked clears then adds",
			tasks:   []model.Task{{ID: "a", Checked: true}, {ID: "b"}},
			methods: []string{"RemoveAllPending", "Add"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testutil.NewGateway()
			state := todos.NewState(tt.tasks...)
			before := state.Clone()

			eff := todos.Reduce(&state, todos.ScheduleCompletionReminder{}, todos.Environment{Gateway: gw})

			assert.Equal(t, before, state, "scheduling must not touch the list")
			require.NoError(t, runEffect(t, eff))
			assert.Equal(t, tt.methods, gw.Methods())
		})
	}
}

func TestReduce_ScheduleCompletionReminderRequest(t *testing.T) {
	gw := testutil.NewGateway()
	state := todos.NewState(model.Task{ID: "a"})

	eff := todos.Reduce(&state, todos.ScheduleCompletionReminder{}, todos.Environment{Gateway: gw})
	require.NoError(t, runEffect(t, eff))

	calls := gw.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, model.ReminderRequest{
		Identifier: "TODO",
		Content: model.NotificationContent{
			Title:    "Todos",
			Subtitle: "Review your incomplete Todos for today!",
			Sound:    model.SoundDefault,
		},
		Trigger: model.TimeIntervalTrigger{Interval: 5 * time.Second, Repeats: false},
	}, calls[1].Request)
}

func TestReduce_ScheduleCompletionReminderErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("remove fails", func(t *testing.T) {
		gw := testutil.NewGateway()
		gw.RemoveErr = boom
		state := todos.NewState(model.Task{ID: "a"})

		err := runEffect(t, todos.Reduce(&state, todos.ScheduleCompletionReminder{}, todos.Environment{Gateway: gw}))

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"RemoveAllPending"}, gw.Methods())
	})

	t.Run("add fails", func(t *testing.T) {
		gw := testutil.NewGateway()
		gw.AddErr = boom
		state := todos.NewState(model.Task{ID: "a"})

		err := runEffect(t, todos.Reduce(&state, todos.ScheduleCompletionReminder{}, todos.Environment{Gateway: gw}))

		assert.ErrorIs(t, err, boom)
	})
}

func TestReduce_RequestNotificationPermission(t *testing.T) {
	gw := testutil.NewGateway()
	gw.Grant = false
	state := abc()

	eff := todos.Reduce(&state, todos.RequestNotificationPermission{}, todos.Environment{Gateway: gw})
	require.NoError(t, runEffect(t, eff), "a denial is not an error")

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "RequestAuthorization", calls[0].Method)
	assert.True(t, calls[0].Options.Has(model.AuthorizationAlert|model.AuthorizationBadge|model.AuthorizationSound))
}

func TestReduce_RequestNotificationPermissionError(t *testing.T) {
	gw := testutil.NewGateway()
	gw.AuthErr = errors.New("no center")
	state := abc()

	err := runEffect(t, todos.Reduce(&state, todos.RequestNotificationPermission{}, todos.Environment{Gateway: gw}))

	assert.ErrorIs(t, err, gw.AuthErr)
}

func TestReduce_GatewayActionsWithoutGateway(t *testing.T) {
	state := abc()

	assert.Nil(t, todos.Reduce(&state, todos.RequestNotificationPermission{}, todos.Environment{}))
	assert.Nil(t, todos.Reduce(&state, todos.ScheduleCompletionReminder{}, todos.Environment{}))
	assert.Nil(t, todos.Reduce(&state, todos.OpenSystemSettings{}, todos.Environment{}))
}

func TestReduce_OpenSystemSettings(t *testing.T) {
	opened := 0
	env := todos.Environment{
		Settings: todos.SettingsOpenerFunc(func(context.Context) error {
			opened++
			return nil
		}),
	}
	state := abc()

	eff := todos.Reduce(&state, todos.OpenSystemSettings{}, env)
	require.NoError(t, runEffect(t, eff))

	assert.Equal(t, 1, opened)
}
