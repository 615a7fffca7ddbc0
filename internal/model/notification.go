package model

import (
	"strings"
	"time"
)

// ReminderIdentifier is the identifier every completion reminder is
// scheduled under; adding a reminder replaces the pending one.
const ReminderIdentifier = "TODO"

// SoundDefault asks deliverers to play their default alert sound.
const SoundDefault = "default"

// NotificationConfig is the content and timing template for the
// completion reminder. It is seeded from AppConfig at startup and never
// written back.
type NotificationConfig struct {
	Title    string
	Subtitle string
	Sound    string
	Delay    time.Duration
}

// DefaultNotificationConfig returns the reminder template used when the
// configuration does not override it.
func DefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Title:    "Todos",
		Subtitle: "Review your incomplete Todos for today!",
		Sound:    SoundDefault,
		Delay:    5 * time.Second,
	}
}

// NotificationContent is what a delivered reminder shows.
type NotificationContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Sound    string `json:"sound"`
}

// TimeIntervalTrigger fires once (or repeatedly) after Interval.
type TimeIntervalTrigger struct {
	Interval time.Duration `json:"interval"`
	Repeats  bool          `json:"repeats"`
}

// ReminderRequest asks the notification gateway to deliver Content when
// Trigger elapses.
type ReminderRequest struct {
	Identifier string              `json:"identifier"`
	Content    NotificationContent `json:"content"`
	Trigger    TimeIntervalTrigger `json:"trigger"`
}

// Reminder is a scheduled reminder as persisted by the gateway.
type Reminder struct {
	ID          string     `json:"id"`
	Identifier  string     `json:"identifier"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	Sound       string     `json:"sound"`
	FireAt      time.Time  `json:"fire_at"`
	Repeats     bool       `json:"repeats"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Content returns the displayable part of the reminder.
func (r Reminder) Content() NotificationContent {
	return NotificationContent{Title: r.Title, Subtitle: r.Subtitle, Sound: r.Sound}
}

// AuthorizationOptions is the set of alert kinds a reminder may use.
type AuthorizationOptions uint8

const (
	AuthorizationAlert AuthorizationOptions = 1 << iota
	AuthorizationBadge
	AuthorizationSound
)

// Has reports whether every option in o2 is present in o.
func (o AuthorizationOptions) Has(o2 AuthorizationOptions) bool {
	return o&o2 == o2
}

// String lists the options, e.g. "alert|sound".
func (o AuthorizationOptions) String() string {
	var parts []string
	if o.Has(AuthorizationAlert) {
		parts = append(parts, "alert")
	}
	if o.Has(AuthorizationBadge) {
		parts = append(parts, "badge")
	}
	if o.Has(AuthorizationSound) {
		parts = append(parts, "sound")
	}
	return strings.Join(parts, "|")
}
