package todos

import (
	"github.com/nhle/todos/internal/ids"
	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/offsets"
)

// ReduceTask applies action to t. newID supplies ids for new sub-tasks.
// Task actions have no effects of their own; the application reducer
// owns every side effect.
func ReduceTask(t *model.Task, action TaskAction, newID ids.Generator) {
	switch a := action.(type) {
	case SetTaskTitle:
		t.Title = a.Text

	case ToggleTaskChecked:
		t.Checked = !t.Checked

	case AddSubTask:
		t.SubTasks = append(t.SubTasks, model.SubTask{ID: newID()})

	case RemoveSubTasks:
		t.SubTasks = offsets.Remove(t.SubTasks, a.Offsets)

	case ClearSubTasks:
		t.SubTasks = nil

	case ClearCompletedSubTasks:
		t.SubTasks = offsets.Keep(t.SubTasks, func(s model.SubTask) bool {
			return !s.Checked
		})

	case MoveSubTasks:
		t.SubTasks = offsets.Move(t.SubTasks, a.From, a.To)

	case RouteSubTask:
		// A sub-task deleted while an action for it was in flight is not
		// an error.
		if i := t.IndexOfSubTask(a.ID); i >= 0 {
			ReduceSubTask(&t.SubTasks[i], a.Action)
		}
	}
}
