package model

// SubTask is a single checklist entry owned by a Task.
type SubTask struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id"`

	// Description is free text; it is stored verbatim.
	Description string `json:"description"`

	// Checked marks the sub-task as done.
	Checked bool `json:"checked"`
}

// Task is one entry of the to-do list.
type Task struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id"`

	// Title is the task text shown in the list.
	Title string `json:"title"`

	// Checked marks the task as done.
	Checked bool `json:"checked"`

	// SubTasks is ordered by display position and unique by ID.
	SubTasks []SubTask `json:"sub_tasks,omitempty"`
}

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	if t.SubTasks != nil {
		subs := make([]SubTask, len(t.SubTasks))
		copy(subs, t.SubTasks)
		t.SubTasks = subs
	}
	return t
}

// IndexOfSubTask returns the position of the sub-task with the given id,
// or -1 if the task has none.
func (t Task) IndexOfSubTask(id string) int {
	for i := range t.SubTasks {
		if t.SubTasks[i].ID == id {
			return i
		}
	}
	return -1
}

// CompletedSubTasks returns how many sub-tasks are checked.
func (t Task) CompletedSubTasks() int {
	n := 0
	for _, s := range t.SubTasks {
		if s.Checked {
			n++
		}
	}
	return n
}
