package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nhle/todos/internal/model"
)

// Bell writes a reminder to a terminal. It rings the bell when the
// reminder has a sound.
type Bell struct {
	mu sync.Mutex
	w  io.Writer

	// Silent suppresses the text and only rings. Used while a full-screen
	// UI owns the terminal.
	Silent bool
}

// NewBell creates a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

var (
	bellTitle    = lipgloss.NewStyle().Bold(true)
	bellSubtitle = lipgloss.NewStyle().Faint(true)
)

func (b *Bell) Name() string { return "bell" }

func (b *Bell) Deliver(_ context.Context, r model.Reminder) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.Sound != "" {
		if _, err := io.WriteString(b.w, "\a"); err != nil {
			return fmt.Errorf("ringing bell: %w", err)
		}
	}
	if b.Silent {
		return nil
	}

	line := bellTitle.Render(r.Title)
	if r.Subtitle != "" {
		line += "  " + bellSubtitle.Render(r.Subtitle)
	}
	if _, err := fmt.Fprintln(b.w, line); err != nil {
		return fmt.Errorf("writing reminder: %w", err)
	}
	return nil
}

// LogDeliverer records reminders in the log.
type LogDeliverer struct {
	Logger *log.Logger
}

func (d LogDeliverer) Name() string { return "log" }

func (d LogDeliverer) Deliver(_ context.Context, r model.Reminder) error {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Info(r.Title, "subtitle", r.Subtitle, "identifier", r.Identifier, "due", r.FireAt)
	return nil
}
