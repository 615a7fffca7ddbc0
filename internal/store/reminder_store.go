package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/todos/internal/model"
)

// reminderRow mirrors the reminders table.
type reminderRow struct {
	ID          string        `db:"id"`
	Identifier  string        `db:"identifier"`
	Title       string        `db:"title"`
	Subtitle    string        `db:"subtitle"`
	Sound       string        `db:"sound"`
	FireAt      int64         `db:"fire_at"`
	Repeats     int           `db:"repeats"`
	DeliveredAt sql.NullInt64 `db:"delivered_at"`
	CreatedAt   int64         `db:"created_at"`
}

func (r reminderRow) toModel() model.Reminder {
	m := model.Reminder{
		ID:         r.ID,
		Identifier: r.Identifier,
		Title:      r.Title,
		Subtitle:   r.Subtitle,
		Sound:      r.Sound,
		FireAt:     fromMillis(r.FireAt),
		Repeats:    r.Repeats != 0,
		CreatedAt:  fromMillis(r.CreatedAt),
	}
	if r.DeliveredAt.Valid {
		at := fromMillis(r.DeliveredAt.Int64)
		m.DeliveredAt = &at
	}
	return m
}

// UpsertReminder inserts r, replacing any reminder with the same
// identifier. A replaced reminder becomes pending again.
func (s *SQLiteStore) UpsertReminder(ctx context.Context, r model.Reminder) error {
	if r.Identifier == "" {
		return fmt.Errorf("reminder identifier must not be empty")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (
			id, identifier, title, subtitle, sound,
			fire_at, repeats, delivered_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			title        = excluded.title,
			subtitle     = excluded.subtitle,
			sound        = excluded.sound,
			fire_at      = excluded.fire_at,
			repeats      = excluded.repeats,
			delivered_at = NULL,
			created_at   = excluded.created_at`,
		r.ID, r.Identifier, r.Title, r.Subtitle, r.Sound,
		toMillis(r.FireAt), boolToInt(r.Repeats), toMillis(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting reminder %s: %w", r.Identifier, err)
	}
	return nil
}

// DeletePendingReminders removes every reminder that has not been
// delivered and reports how many were removed.
func (s *SQLiteStore) DeletePendingReminders(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM reminders WHERE delivered_at IS NULL")
	if err != nil {
		return 0, fmt.Errorf("deleting pending reminders: %w", err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

// GetPendingReminders returns undelivered reminders ordered by fire time.
func (s *SQLiteStore) GetPendingReminders(ctx context.Context) ([]model.Reminder, error) {
	var rows []reminderRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM reminders WHERE delivered_at IS NULL ORDER BY fire_at, created_at")
	if err != nil {
		return nil, fmt.Errorf("querying pending reminders: %w", err)
	}
	return toModels(rows), nil
}

// GetDueReminders returns undelivered reminders whose fire time is at or
// before now, oldest first.
func (s *SQLiteStore) GetDueReminders(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	var rows []reminderRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM reminders
		WHERE delivered_at IS NULL AND fire_at <= ?
		ORDER BY fire_at, created_at`,
		toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("querying due reminders: %w", err)
	}
	return toModels(rows), nil
}

// GetReminder returns the reminder scheduled under identifier.
func (s *SQLiteStore) GetReminder(ctx context.Context, identifier string) (*model.Reminder, error) {
	var row reminderRow
	err := s.db.GetContext(ctx, &row,
		"SELECT * FROM reminders WHERE identifier = ?", identifier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reminder %s: %w", identifier, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting reminder %s: %w", identifier, err)
	}
	m := row.toModel()
	return &m, nil
}

// MarkReminderDelivered records that the reminder with id was delivered at at.
func (s *SQLiteStore) MarkReminderDelivered(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE reminders SET delivered_at = ? WHERE id = ?",
		toMillis(at), id,
	)
	if err != nil {
		return fmt.Errorf("marking reminder %s delivered: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}
	return nil
}

func toModels(rows []reminderRow) []model.Reminder {
	out := make([]model.Reminder, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out
}
