package todos

// SubTaskAction is an action handled by ReduceSubTask.
type SubTaskAction interface{ subTaskAction() }

// ToggleSubTaskChecked flips a sub-task's checked flag.
type ToggleSubTaskChecked struct{}

// SetSubTaskDescription replaces a sub-task's description verbatim.
type SetSubTaskDescription struct{ Text string }

func (ToggleSubTaskChecked) subTaskAction()  {}
func (SetSubTaskDescription) subTaskAction() {}

// TaskAction is an action handled by ReduceTask.
type TaskAction interface{ taskAction() }

// SetTaskTitle replaces a task's title verbatim.
type SetTaskTitle struct{ Text string }

// ToggleTaskChecked flips a task's checked flag. Routed through the
// application reducer it also restarts the completion sort debounce.
type ToggleTaskChecked struct{}

// AddSubTask appends an empty sub-task with a fresh id.
type AddSubTask struct{}

// RemoveSubTasks removes the sub-tasks at Offsets, resolved against the
// order before the removal.
type RemoveSubTasks struct{ Offsets []int }

// ClearSubTasks removes every sub-task.
type ClearSubTasks struct{}

// ClearCompletedSubTasks removes every checked sub-task.
type ClearCompletedSubTasks struct{}

// MoveSubTasks moves the sub-tasks at From to just before offset To of
// the pre-move order.
type MoveSubTasks struct {
	From []int
	To   int
}

// RouteSubTask delivers Action to the sub-task with ID.
type RouteSubTask struct {
	ID     string
	Action SubTaskAction
}

func (SetTaskTitle) taskAction()           {}
func (ToggleTaskChecked) taskAction()      {}
func (AddSubTask) taskAction()             {}
func (RemoveSubTasks) taskAction()         {}
func (ClearSubTasks) taskAction()          {}
func (ClearCompletedSubTasks) taskAction() {}
func (MoveSubTasks) taskAction()           {}
func (RouteSubTask) taskAction()           {}

// Action is an action handled by Reduce, the application reducer.
type Action interface{ appAction() }

// AddTask inserts an empty task with a fresh id at the top of the list.
type AddTask struct{}

// RemoveTasks removes the tasks at Offsets, resolved against the order
// before the removal.
type RemoveTasks struct{ Offsets []int }

// RouteTask delivers Action to the task with ID.
type RouteTask struct {
	ID     string
	Action TaskAction
}

// ClearTasks removes every task.
type ClearTasks struct{}

// ClearCompletedTasks removes every checked task.
type ClearCompletedTasks struct{}

// MoveTasks moves the tasks at From to just before offset To of the
// pre-move order.
type MoveTasks struct {
	From []int
	To   int
}

// SortCompletedTasks moves checked tasks below unchecked ones, keeping
// the relative order inside both groups.
type SortCompletedTasks struct{}

// RequestNotificationPermission asks the gateway for authorization. The
// app sends it when it comes to the foreground.
type RequestNotificationPermission struct{}

// ScheduleCompletionReminder replaces the pending reminder. The app
// sends it when it goes to the background.
type ScheduleCompletionReminder struct{}

// OpenSystemSettings asks the host to show notification settings.
type OpenSystemSettings struct{}

func (AddTask) appAction()                       {}
func (RemoveTasks) appAction()                   {}
func (RouteTask) appAction()                     {}
func (ClearTasks) appAction()                    {}
func (ClearCompletedTasks) appAction()           {}
func (MoveTasks) appAction()                     {}
func (SortCompletedTasks) appAction()            {}
func (RequestNotificationPermission) appAction() {}
func (ScheduleCompletionReminder) appAction()    {}
func (OpenSystemSettings) appAction()            {}
