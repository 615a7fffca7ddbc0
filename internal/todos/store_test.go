package todos_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todos/internal/ids"
	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/scheduler"
	"github.com/nhle/todos/internal/todos"
	"github.com/nhle/todos/tests/testutil"
)

var epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, initial todos.State, env todos.Environment) (*todos.Store, *scheduler.Test) {
	t.Helper()
	sched := scheduler.NewTest(epoch)
	s := todos.NewStore(initial, env, sched, todos.WithSyncEffects())
	t.Cleanup(s.Close)
	return s, sched
}

func TestStore_CheckThenSortAfterDebounce(t *testing.T) {
	s, sched := newTestStore(t, abc(), todos.Environment{})

	s.Send(toggle("A"))

	state := s.State()
	assert.Equal(t, []string{"A", "B", "C"}, taskIDs(state))
	assert.True(t, state.Tasks[0].Checked)

	sched.Advance(999 * time.Millisecond)
	assert.Equal(t, []string{"A", "B", "C"}, taskIDs(s.State()))

	sched.Advance(time.Millisecond)
	assert.Equal(t, []string{"B", "A", "C"}, taskIDs(s.State()))
	assert.Zero(t, sched.Pending())
}

func TestStore_TogglesCollapseIntoOneSort(t *testing.T) {
	initial := todos.NewState(
		model.Task{ID: "1"},
		model.Task{ID: "2"},
		model.Task{ID: "3"},
		model.Task{ID: "4"},
	)
	s, sched := newTestStore(t, initial, todos.Environment{})

	sorts := 0
	var sortedAt time.Time
	prev := taskIDs(initial)
	s.Subscribe(func(st todos.State) {
		order := taskIDs(st)
		if !assert.ObjectsAreEqual(prev, order) {
			sorts++
			sortedAt = sched.Now()
		}
		prev = order
	})

	s.Send(toggle("1"))
	sched.Advance(400 * time.Millisecond)
	s.Send(toggle("2"))
	sched.Advance(400 * time.Millisecond)
	s.Send(toggle("3"))
	sched.Advance(999 * time.Millisecond)
	assert.Zero(t, sorts, "no sort before the last toggle has settled")

	sched.Advance(time.Millisecond)
	assert.Equal(t, 1, sorts)
	assert.Equal(t, epoch.Add(1800*time.Millisecond), sortedAt)
	assert.Equal(t, []string{"4", "1", "2", "3"}, taskIDs(s.State()))
}

func TestStore_UncheckBeforeSortStillSorts(t *testing.T) {
	s, sched := newTestStore(t, abc(), todos.Environment{})

	s.Send(toggle("A"))
	s.Send(toggle("A"))
	sched.Run()

	// The sort still runs but has nothing to move.
	assert.Equal(t, []string{"A", "B", "C"}, taskIDs(s.State()))
}

func TestStore_SortSeesLatestState(t *testing.T) {
	s, sched := newTestStore(t, abc(), todos.Environment{NewID: ids.Fixed("N")})

	s.Send(toggle("A"))
	s.Send(todos.AddTask{})
	sched.Run()

	assert.Equal(t, []string{"N", "B", "A", "C"}, taskIDs(s.State()))
}

func TestStore_ObserversSeeEveryReductionInOrder(t *testing.T) {
	s, _ := newTestStore(t, todos.NewState(), todos.Environment{NewID: ids.Sequence("a", "b", "c")})

	var seen [][]string
	s.Subscribe(func(st todos.State) { seen = append(seen, taskIDs(st)) })

	s.Send(todos.AddTask{})
	s.Send(todos.AddTask{})
	s.Send(todos.RemoveTasks{Offsets: []int{1}})

	assert.Equal(t, [][]string{
		{"a"},
		{"b", "a"},
		{"b"},
	}, seen)
}

func TestStore_SendFromObserverIsQueued(t *testing.T) {
	s, _ := newTestStore(t, todos.NewState(), todos.Environment{NewID: ids.Sequence("a", "b")})

	var (
		depth, maxDepth int
		lengths         []int
	)
	s.Subscribe(func(st todos.State) {
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		lengths = append(lengths, len(st.Tasks))
		if len(st.Tasks) == 1 {
			s.Send(todos.AddTask{})
		}
		depth--
	})

	s.Send(todos.AddTask{})

	assert.Equal(t, 1, maxDepth, "reductions must not nest")
	assert.Equal(t, []int{1, 2}, lengths)
}

func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	s, _ := newTestStore(t, todos.NewState(), todos.Environment{})

	calls := 0
	unsubscribe := s.Subscribe(func(todos.State) { calls++ })

	s.Send(todos.AddTask{})
	unsubscribe()
	s.Send(todos.AddTask{})

	assert.Equal(t, 1, calls)
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	s, _ := newTestStore(t, abc(), todos.Environment{})

	snap := s.State()
	snap.Tasks[0].Title = "mutated"

	assert.Equal(t, "a", s.State().Tasks[0].Title)
}

func TestStore_RunsGatewayEffects(t *testing.T) {
	gw := testutil.NewGateway()
	s, _ := newTestStore(t, abc(), todos.Environment{Gateway: gw})

	s.Send(todos.RequestNotificationPermission{})
	s.Send(todos.ScheduleCompletionReminder{})

	assert.Equal(t, []string{"RequestAuthorization", "RemoveAllPending", "Add"}, gw.Methods())
	require.Len(t, gw.Pending(), 1)
	assert.Equal(t, model.ReminderIdentifier, gw.Pending()[0].Identifier)
}

func TestStore_AsyncEffectsAndWait(t *testing.T) {
	gw := testutil.NewGateway()
	s := todos.NewStore(abc(), todos.Environment{Gateway: gw}, scheduler.NewTest(epoch))
	defer s.Close()

	s.Send(todos.ScheduleCompletionReminder{})
	s.Wait()

	assert.Equal(t, []string{"RemoveAllPending", "Add"}, gw.Methods())
}

func TestStore_CloseDropsPendingSort(t *testing.T) {
	sched := scheduler.NewTest(epoch)
	s := todos.NewStore(abc(), todos.Environment{}, sched)

	s.Send(toggle("A"))
	s.Close()
	sched.Run()

	assert.Equal(t, []string{"A", "B", "C"}, taskIDs(s.State()))

	s.Send(todos.ClearTasks{})
	assert.Len(t, s.State().Tasks, 3, "closed store ignores actions")
}

func TestStore_ConcurrentSends(t *testing.T) {
	s, _ := newTestStore(t, todos.NewState(), todos.Environment{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Send(todos.AddTask{})
		}()
	}
	wg.Wait()

	assert.Len(t, s.State().Tasks, 50)
}

func TestStore_EffectErrorIsLogged(t *testing.T) {
	gw := testutil.NewGateway()
	gw.AuthErr = context.Canceled
	s, _ := newTestStore(t, abc(), todos.Environment{Gateway: gw})

	assert.NotPanics(t, func() { s.Send(todos.RequestNotificationPermission{}) })
}

// stallingGateway blocks its first RemoveAllPending call until release
// is closed.
type stallingGateway struct {
	*testutil.Gateway
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *stallingGateway) RemoveAllPending(ctx context.Context) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.started)
		<-g.release
	}
	return g.Gateway.RemoveAllPending(ctx)
}

func TestStore_RunEffectsKeepSubmissionOrder(t *testing.T) {
	gw := &stallingGateway{
		Gateway: testutil.NewGateway(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := todos.NewStore(todos.NewState(model.Task{ID: "A"}), todos.Environment{Gateway: gw}, scheduler.NewTest(epoch))
	defer s.Close()

	// The first reminder is computed while A is open and stalls in the
	// gateway. The second one sees every task checked.
	s.Send(todos.ScheduleCompletionReminder{})
	select {
	case <-gw.started:
	case <-time.After(time.Second):
		t.Fatal("first reminder effect never started")
	}
	s.Send(toggle("A"))
	s.Send(todos.ScheduleCompletionReminder{})

	time.Sleep(20 * time.Millisecond)
	close(gw.release)
	s.Wait()

	assert.True(t, s.State().AllChecked())
	assert.Equal(t, []string{"RemoveAllPending", "Add", "RemoveAllPending"}, gw.Methods())
	assert.Empty(t, gw.Pending(), "a stale reminder outlived the later schedule")
}

func TestStore_PanickingObserverDoesNotStallTheStore(t *testing.T) {
	s, _ := newTestStore(t, todos.NewState(), todos.Environment{NewID: ids.Sequence("a", "b")})

	unsubscribe := s.Subscribe(func(todos.State) { panic("observer failed") })
	assert.Panics(t, func() { s.Send(todos.AddTask{}) })
	unsubscribe()

	done := make(chan struct{})
	go func() {
		s.Send(todos.AddTask{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("store stopped reducing after an observer panicked")
	}

	assert.Equal(t, []string{"b", "a"}, taskIDs(s.State()))
}
