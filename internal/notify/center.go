// Package notify is the terminal rendition of a local notification
// center. Center implements the gateway the todos core talks to: it
// keeps the user's authorization decision and the scheduled reminders in
// SQLite. Poller delivers reminders once they fall due.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/store"
)

// AuthorizationKey is the settings key the user's decision is stored under.
const AuthorizationKey = "notifications.authorization"

// ErrNotAuthorized is returned by Add when the user has not granted
// notification permission.
var ErrNotAuthorized = errors.New("notifications not authorized")

// Authorization is the user's notification permission decision.
type Authorization string

const (
	NotDetermined Authorization = ""
	Granted       Authorization = "granted"
	Denied        Authorization = "denied"
)

// Prompter asks the user whether reminders may be shown.
type Prompter interface {
	Confirm(ctx context.Context, opts model.AuthorizationOptions) (bool, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, opts model.AuthorizationOptions) (bool, error)

// Confirm calls f(ctx, opts).
func (f PrompterFunc) Confirm(ctx context.Context, opts model.AuthorizationOptions) (bool, error) {
	return f(ctx, opts)
}

// ReminderStore is the part of store.Store the center needs.
type ReminderStore interface {
	UpsertReminder(ctx context.Context, r model.Reminder) error
	DeletePendingReminders(ctx context.Context) (int, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Center schedules reminders for later delivery. Safe for concurrent use.
type Center struct {
	store    ReminderStore
	prompter Prompter
	now      func() time.Time
	logger   *log.Logger

	// mu serializes authorization so the user is asked at most once.
	mu sync.Mutex
}

// CenterOption configures a Center.
type CenterOption func(*Center)

// WithPrompter sets who is asked when no decision is stored yet.
func WithPrompter(p Prompter) CenterOption {
	return func(c *Center) { c.prompter = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CenterOption {
	return func(c *Center) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) CenterOption {
	return func(c *Center) { c.logger = l }
}

// NewCenter creates a center persisting to s.
func NewCenter(s ReminderStore, opts ...CenterOption) *Center {
	c := &Center{
		store:  s,
		now:    time.Now,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authorization returns the stored decision.
func (c *Center) Authorization(ctx context.Context) (Authorization, error) {
	v, err := c.store.GetSetting(ctx, AuthorizationKey)
	if errors.Is(err, store.ErrNotFound) {
		return NotDetermined, nil
	}
	if err != nil {
		return NotDetermined, fmt.Errorf("reading authorization: %w", err)
	}
	switch Authorization(v) {
	case Granted, Denied:
		return Authorization(v), nil
	default:
		return NotDetermined, nil
	}
}

// SetAuthorization records a decision made outside a prompt, e.g. from
// the settings screen.
func (c *Center) SetAuthorization(ctx context.Context, a Authorization) error {
	if err := c.store.SetSetting(ctx, AuthorizationKey, string(a)); err != nil {
		return fmt.Errorf("saving authorization: %w", err)
	}
	return nil
}

// RequestAuthorization returns the stored decision, asking the prompter
// first if there is none. Without a prompter an undetermined decision is
// treated as denied and not persisted, so a later prompt can still ask.
func (c *Center) RequestAuthorization(ctx context.Context, opts model.AuthorizationOptions) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.Authorization(ctx)
	if err != nil {
		return false, err
	}
	if current != NotDetermined {
		return current == Granted, nil
	}
	if c.prompter == nil {
		return false, nil
	}

	granted, err := c.prompter.Confirm(ctx, opts)
	if err != nil {
		return false, fmt.Errorf("prompting for authorization: %w", err)
	}

	decision := Denied
	if granted {
		decision = Granted
	}
	if err := c.SetAuthorization(ctx, decision); err != nil {
		return false, err
	}
	c.logger.Debug("authorization decided", "decision", decision, "options", opts)
	return granted, nil
}

// RemoveAllPending drops every reminder that has not been delivered.
func (c *Center) RemoveAllPending(ctx context.Context) error {
	n, err := c.store.DeletePendingReminders(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		c.logger.Debug("removed pending reminders", "count", n)
	}
	return nil
}

// Add schedules req, replacing any reminder with the same identifier.
// It fails with ErrNotAuthorized unless permission was granted.
func (c *Center) Add(ctx context.Context, req model.ReminderRequest) error {
	auth, err := c.Authorization(ctx)
	if err != nil {
		return err
	}
	if auth != Granted {
		return ErrNotAuthorized
	}

	now := c.now()
	r := model.Reminder{
		Identifier: req.Identifier,
		Title:      req.Content.Title,
		Subtitle:   req.Content.Subtitle,
		Sound:      req.Content.Sound,
		FireAt:     now.Add(req.Trigger.Interval),
		Repeats:    req.Trigger.Repeats,
		CreatedAt:  now,
	}
	if err := c.store.UpsertReminder(ctx, r); err != nil {
		return err
	}
	return nil
}
