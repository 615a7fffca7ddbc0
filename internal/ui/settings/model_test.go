package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/notify"
)

func TestValues_RoundTrip(t *testing.T) {
	cfg := model.DefaultAppConfig()

	v := ValuesFrom(cfg, notify.Granted)
	assert.Equal(t, "Todos", v.Title)
	assert.Equal(t, "5", v.DelaySec)
	assert.Equal(t, "1000", v.DebounceMs)
	assert.True(t, v.Allow)

	v.Title = "  Chores "
	v.DelaySec = "60"
	v.DebounceMs = "250"
	v.Allow = false

	got, err := v.Apply(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Chores", got.Reminder.Title)
	assert.Equal(t, 60, got.Reminder.DelaySec)
	assert.Equal(t, 250, got.Sort.DebounceMs)
	assert.Equal(t, notify.Denied, v.Authorization())

	assert.Equal(t, "Todos", cfg.Reminder.Title, "Apply must not modify its input")
}

func TestValues_NotDeterminedShowsDisallowed(t *testing.T) {
	v := ValuesFrom(model.DefaultAppConfig(), notify.NotDetermined)
	assert.False(t, v.Allow)
}

func TestValues_RejectsBadNumbers(t *testing.T) {
	cfg := model.DefaultAppConfig()
	for _, in := range []string{"", "abc", "0", "-3"} {
		v := ValuesFrom(cfg, notify.Granted)
		v.DelaySec = in
		_, err := v.Apply(cfg)
		assert.Error(t, err, "delay %q", in)
	}
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validatePositive("x")("12"))
	assert.EqualError(t, validatePositive("x")("0"), "x must be greater than zero")
	assert.EqualError(t, validateRequired("Title")("  "), "Title is required")
}
