package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/store"
	"github.com/nhle/todos/tests/testutil"
)

var base = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func reminder(identifier string, fireAt time.Time) model.Reminder {
	return model.Reminder{
		Identifier: identifier,
		Title:      "Todos",
		Subtitle:   "Review your incomplete Todos for today!",
		Sound:      model.SoundDefault,
		FireAt:     fireAt,
		CreatedAt:  base,
	}
}

func TestMigrationsApplied(t *testing.T) {
	s := testutil.NewTestStore(t)

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestUpsertReminder_ReplacesByIdentifier(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertReminder(ctx, reminder("TODO", base.Add(5*time.Second))))

	second := reminder("TODO", base.Add(time.Minute))
	second.Subtitle = "updated"
	require.NoError(t, s.UpsertReminder(ctx, second))

	pending, err := s.GetPendingReminders(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "updated", pending[0].Subtitle)
	assert.True(t, pending[0].FireAt.Equal(base.Add(time.Minute)))
	assert.NotEmpty(t, pending[0].ID)
	assert.Nil(t, pending[0].DeliveredAt)
}

func TestUpsertReminder_RequiresIdentifier(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.UpsertReminder(context.Background(), reminder("", base))
	assert.Error(t, err)
}

func TestGetDueReminders(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertReminder(ctx, reminder("early", base.Add(time.Second))))
	require.NoError(t, s.UpsertReminder(ctx, reminder("late", base.Add(time.Hour))))

	due, err := s.GetDueReminders(ctx, base)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = s.GetDueReminders(ctx, base.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "early", due[0].Identifier)

	due, err = s.GetDueReminders(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "early", due[0].Identifier)
	assert.Equal(t, "late", due[1].Identifier)
}

func TestMarkReminderDelivered(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertReminder(ctx, reminder("TODO", base)))
	r, err := s.GetReminder(ctx, "TODO")
	require.NoError(t, err)

	deliveredAt := base.Add(2 * time.Second)
	require.NoError(t, s.MarkReminderDelivered(ctx, r.ID, deliveredAt))

	due, err := s.GetDueReminders(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due, "delivered reminders are never due again")

	r, err = s.GetReminder(ctx, "TODO")
	require.NoError(t, err)
	require.NotNil(t, r.DeliveredAt)
	assert.True(t, r.DeliveredAt.Equal(deliveredAt))

	err = s.MarkReminderDelivered(ctx, "missing", deliveredAt)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeletePendingReminders_KeepsDelivered(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertReminder(ctx, reminder("old", base)))
	old, err := s.GetReminder(ctx, "old")
	require.NoError(t, err)
	require.NoError(t, s.MarkReminderDelivered(ctx, old.ID, base))
	require.NoError(t, s.UpsertReminder(ctx, reminder("TODO", base.Add(5*time.Second))))

	n, err := s.DeletePendingReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	pending, err := s.GetPendingReminders(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = s.GetReminder(ctx, "old")
	assert.NoError(t, err)

	_, err = s.GetReminder(ctx, "TODO")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpsertReminder_RearmsDelivered(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertReminder(ctx, reminder("TODO", base)))
	r, err := s.GetReminder(ctx, "TODO")
	require.NoError(t, err)
	require.NoError(t, s.MarkReminderDelivered(ctx, r.ID, base))

	require.NoError(t, s.UpsertReminder(ctx, reminder("TODO", base.Add(time.Minute))))

	pending, err := s.GetPendingReminders(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, r.ID, pending[0].ID)
}
