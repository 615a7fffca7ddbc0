package app

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// errOpenerClosed is returned once the UI has gone away.
var errOpenerClosed = errors.New("settings view unavailable")

// openSettingsMsg asks the root model to show the settings view.
type openSettingsMsg struct{}

// SettingsOpener is the todos.SettingsOpener of the TUI: opening the
// system settings shows the in-app settings form.
type SettingsOpener struct {
	requests  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSettingsOpener creates an opener.
func NewSettingsOpener() *SettingsOpener {
	return &SettingsOpener{
		requests: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// OpenSettings blocks until the UI picks up the request.
func (o *SettingsOpener) OpenSettings(ctx context.Context) error {
	select {
	case o.requests <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-o.done:
		return errOpenerClosed
	}
}

// Wait returns a tea.Cmd that waits for the next request.
func (o *SettingsOpener) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-o.requests:
			return openSettingsMsg{}
		case <-o.done:
			return nil
		}
	}
}

// Close releases pending requests and waiters.
func (o *SettingsOpener) Close() {
	o.closeOnce.Do(func() { close(o.done) })
}
