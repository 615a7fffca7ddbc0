package todos

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/nhle/todos/internal/ids"
	"github.com/nhle/todos/internal/model"
)

// NotificationGateway schedules local reminders on behalf of the core.
// The core only decides whether and when to call it.
type NotificationGateway interface {
	RequestAuthorization(ctx context.Context, opts model.AuthorizationOptions) (bool, error)
	RemoveAllPending(ctx context.Context) error
	Add(ctx context.Context, req model.ReminderRequest) error
}

// SettingsOpener shows the host's notification settings.
type SettingsOpener interface {
	OpenSettings(ctx context.Context) error
}

// SettingsOpenerFunc adapts a function to SettingsOpener.
type SettingsOpenerFunc func(ctx context.Context) error

// OpenSettings calls f(ctx).
func (f SettingsOpenerFunc) OpenSettings(ctx context.Context) error { return f(ctx) }

// Environment carries the capabilities reducers need. Tests substitute
// deterministic ones.
type Environment struct {
	NewID    ids.Generator
	Gateway  NotificationGateway
	Settings SettingsOpener
	Logger   *log.Logger
}

func (e Environment) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

func (e Environment) newID() ids.Generator {
	if e.NewID == nil {
		return ids.UUID
	}
	return e.NewID
}
