package todos

import (
	"time"

	"github.com/nhle/todos/internal/model"
)

// DefaultSortDebounce is how long the list waits after the last checked
// task before re-sorting.
const DefaultSortDebounce = time.Second

// State is the whole application state. It owns its tasks; each task
// owns its sub-tasks.
type State struct {
	// Tasks is ordered by display position and unique by ID.
	Tasks []model.Task

	// Notification is the reminder template; transient.
	Notification model.NotificationConfig

	// SortDebounce is the completion sort delay.
	SortDebounce time.Duration
}

// NewState returns a state holding tasks with the default reminder
// template and sort debounce.
func NewState(tasks ...model.Task) State {
	return State{
		Tasks:        tasks,
		Notification: model.DefaultNotificationConfig(),
		SortDebounce: DefaultSortDebounce,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	if s.Tasks != nil {
		tasks := make([]model.Task, len(s.Tasks))
		for i, t := range s.Tasks {
			tasks[i] = t.Clone()
		}
		s.Tasks = tasks
	}
	return s
}

// IndexOfTask returns the position of the task with id, or -1.
func (s State) IndexOfTask(id string) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Task returns the task with id.
func (s State) Task(id string) (model.Task, bool) {
	if i := s.IndexOfTask(id); i >= 0 {
		return s.Tasks[i], true
	}
	return model.Task{}, false
}

// AllChecked reports whether every task is checked. An empty list counts
// as all checked.
func (s State) AllChecked() bool {
	for _, t := range s.Tasks {
		if !t.Checked {
			return false
		}
	}
	return true
}

// Incomplete returns how many tasks are unchecked.
func (s State) Incomplete() int {
	n := 0
	for _, t := range s.Tasks {
		if !t.Checked {
			n++
		}
	}
	return n
}

// ReminderRequest builds the one-shot completion reminder from the
// notification template.
func (s State) ReminderRequest() model.ReminderRequest {
	return model.ReminderRequest{
		Identifier: model.ReminderIdentifier,
		Content: model.NotificationContent{
			Title:    s.Notification.Title,
			Subtitle: s.Notification.Subtitle,
			Sound:    s.Notification.Sound,
		},
		Trigger: model.TimeIntervalTrigger{
			Interval: s.Notification.Delay,
			Repeats:  false,
		},
	}
}
