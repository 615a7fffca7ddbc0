package todos

import "github.com/nhle/todos/internal/model"

// ReduceSubTask applies action to s. It never fails and has no effects.
func ReduceSubTask(s *model.SubTask, action SubTaskAction) {
	switch a := action.(type) {
	case ToggleSubTaskChecked:
		s.Checked = !s.Checked
	case SetSubTaskDescription:
		s.Description = a.Text
	}
}
