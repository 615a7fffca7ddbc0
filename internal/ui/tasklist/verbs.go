package tasklist

import "github.com/nhle/todos/internal/todos"

// Verbs maps the list's editing gestures to actions. Nil verbs are
// disabled.
type Verbs struct {
	Add            func() todos.Action
	Toggle         func(id string) todos.Action
	Rename         func(id, text string) todos.Action
	Remove         func(offsets []int) todos.Action
	Move           func(from []int, to int) todos.Action
	ClearCompleted func() todos.Action
	ClearAll       func() todos.Action
}

// TaskVerbs edits the top-level task list.
func TaskVerbs() Verbs {
	return Verbs{
		Add: func() todos.Action { return todos.AddTask{} },
		Toggle: func(id string) todos.Action {
			return todos.RouteTask{ID: id, Action: todos.ToggleTaskChecked{}}
		},
		Rename: func(id, text string) todos.Action {
			return todos.RouteTask{ID: id, Action: todos.SetTaskTitle{Text: text}}
		},
		Remove: func(offsets []int) todos.Action {
			return todos.RemoveTasks{Offsets: offsets}
		},
		Move: func(from []int, to int) todos.Action {
			return todos.MoveTasks{From: from, To: to}
		},
		ClearCompleted: func() todos.Action { return todos.ClearCompletedTasks{} },
		ClearAll:       func() todos.Action { return todos.ClearTasks{} },
	}
}

// SubTaskVerbs edits the sub-tasks of the task with taskID. Every action
// is routed through the task.
func SubTaskVerbs(taskID string) Verbs {
	route := func(a todos.TaskAction) todos.Action {
		return todos.RouteTask{ID: taskID, Action: a}
	}
	return Verbs{
		Add: func() todos.Action { return route(todos.AddSubTask{}) },
		Toggle: func(id string) todos.Action {
			return route(todos.RouteSubTask{ID: id, Action: todos.ToggleSubTaskChecked{}})
		},
		Rename: func(id, text string) todos.Action {
			return route(todos.RouteSubTask{ID: id, Action: todos.SetSubTaskDescription{Text: text}})
		},
		Remove: func(offsets []int) todos.Action {
			return route(todos.RemoveSubTasks{Offsets: offsets})
		},
		Move: func(from []int, to int) todos.Action {
			return route(todos.MoveSubTasks{From: from, To: to})
		},
		ClearCompleted: func() todos.Action { return route(todos.ClearCompletedSubTasks{}) },
		ClearAll:       func() todos.Action { return route(todos.ClearSubTasks{}) },
	}
}
