// Package todos is the state core of the to-do list: the action types
// of each level, the three reducers that compose into one, the effects a
// reduction may request, and the Store that sequences them.
//
// Sub-task actions travel wrapped in task actions, which travel wrapped
// in application actions. Each level locates the child by id and
// delegates; a missing child is a no-op.
package todos

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/offsets"
)

// TaskCompletionID is the debounce slot of the completion sort.
const TaskCompletionID = "task-completion"

// authorizationOptions is what the reminder needs to alert the user.
const authorizationOptions = model.AuthorizationAlert |
	model.AuthorizationBadge |
	model.AuthorizationSound

// Reduce applies action to state and returns at most one effect.
func Reduce(state *State, action Action, env Environment) Effect {
	switch a := action.(type) {
	case AddTask:
		task := model.Task{ID: env.newID()()}
		state.Tasks = append([]model.Task{task}, state.Tasks...)
		return nil

	case RemoveTasks:
		state.Tasks = offsets.Remove(state.Tasks, a.Offsets)
		return nil

	case RouteTask:
		i := state.IndexOfTask(a.ID)
		if i < 0 {
			return nil
		}
		ReduceTask(&state.Tasks[i], a.Action, env.newID())

		// Checking (or unchecking) a task restarts the one pending sort,
		// so a burst of toggles settles into a single re-sort.
		if _, ok := a.Action.(ToggleTaskChecked); ok {
			return Debounce{
				ID:     TaskCompletionID,
				Delay:  sortDebounce(state),
				Action: SortCompletedTasks{},
			}
		}
		return nil

	case ClearTasks:
		state.Tasks = nil
		return nil

	case ClearCompletedTasks:
		state.Tasks = offsets.Keep(state.Tasks, func(t model.Task) bool {
			return !t.Checked
		})
		return nil

	case MoveTasks:
		state.Tasks = offsets.Move(state.Tasks, a.From, a.To)
		return nil

	case SortCompletedTasks:
		state.Tasks = offsets.StablePartition(state.Tasks, func(t model.Task) bool {
			return t.Checked
		})
		return nil

	case RequestNotificationPermission:
		return requestPermission(env)

	case ScheduleCompletionReminder:
		return scheduleReminder(state, env)

	case OpenSystemSettings:
		if env.Settings == nil {
			return nil
		}
		settings := env.Settings
		return Run{
			Name: "open-system-settings",
			Fn:   settings.OpenSettings,
		}
	}

	return nil
}

func sortDebounce(state *State) time.Duration {
	if state.SortDebounce <= 0 {
		return DefaultSortDebounce
	}
	return state.SortDebounce
}

func requestPermission(env Environment) Effect {
	if env.Gateway == nil {
		return nil
	}
	gw, logger := env.Gateway, env.logger()

	return Run{
		Name: "request-notification-permission",
		Fn: func(ctx context.Context) error {
			granted, err := gw.RequestAuthorization(ctx, authorizationOptions)
			if err != nil {
				return fmt.Errorf("requesting notification authorization: %w", err)
			}
			if granted {
				logger.Info("permissions accepted", "options", authorizationOptions)
			} else {
				logger.Warn("notification permission denied", "options", authorizationOptions)
			}
			return nil
		},
	}
}

// scheduleReminder decides from the current state whether a reminder is
// needed. Pending reminders are always cleared; a new one is added only
// while some task is unchecked.
func scheduleReminder(state *State, env Environment) Effect {
	if env.Gateway == nil {
		return nil
	}
	gw, logger := env.Gateway, env.logger()

	var req *model.ReminderRequest
	if !state.AllChecked() {
		r := state.ReminderRequest()
		req = &r
	}
	incomplete := state.Incomplete()

	return Run{
		Name: "schedule-completion-reminder",
		Fn: func(ctx context.Context) error {
			if err := gw.RemoveAllPending(ctx); err != nil {
				return fmt.Errorf("removing pending reminders: %w", err)
			}
			if req == nil {
				logger.Debug("all tasks complete, no reminder scheduled")
				return nil
			}
			if err := gw.Add(ctx, *req); err != nil {
				return fmt.Errorf("adding reminder %s: %w", req.Identifier, err)
			}
			logger.Info("reminder scheduled",
				"in", req.Trigger.Interval,
				"incomplete", incomplete,
			)
			return nil
		},
	}
}
