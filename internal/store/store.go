package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/todos/internal/model"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface behind the notification
// gateway: scheduled reminders and a small key/value settings table.
type Store interface {
	// === Reminders ===

	UpsertReminder(ctx context.Context, r model.Reminder) error
	DeletePendingReminders(ctx context.Context) (int, error)
	GetPendingReminders(ctx context.Context) ([]model.Reminder, error)
	GetDueReminders(ctx context.Context, now time.Time) ([]model.Reminder, error)
	MarkReminderDelivered(ctx context.Context, id string, at time.Time) error

	// === Settings ===

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
