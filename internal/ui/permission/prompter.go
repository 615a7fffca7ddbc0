// Package permission asks the user for notification permission from
// inside the TUI. Prompter is handed to notify.Center; the root model
// shows a Model for each Request it receives.
package permission

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todos/internal/model"
)

var (
	// ErrClosed is returned by Confirm after Close.
	ErrClosed = errors.New("permission prompter closed")

	// ErrDismissed is returned by Confirm when the user closed the prompt
	// without answering.
	ErrDismissed = errors.New("permission prompt dismissed")
)

// Request is one pending question.
type Request struct {
	Options model.AuthorizationOptions
	reply   chan answer
}

type answer struct {
	granted bool
	err     error
}

// Answer replies to the request.
func (r Request) Answer(granted bool) {
	r.send(answer{granted: granted})
}

// Dismiss replies without a decision.
func (r Request) Dismiss() {
	r.send(answer{err: ErrDismissed})
}

func (r Request) send(a answer) {
	select {
	case r.reply <- a:
	default:
	}
}

// RequestMsg is the tea.Msg delivered for every Request.
type RequestMsg struct {
	Request Request
}

// Prompter implements notify.Prompter by forwarding each question to the
// TUI and waiting for the answer.
type Prompter struct {
	requests  chan Request
	done      chan struct{}
	closeOnce sync.Once
}

// NewPrompter creates a prompter.
func NewPrompter() *Prompter {
	return &Prompter{
		requests: make(chan Request),
		done:     make(chan struct{}),
	}
}

// Confirm blocks until the user answers, ctx ends or the prompter closes.
func (p *Prompter) Confirm(ctx context.Context, opts model.AuthorizationOptions) (bool, error) {
	req := Request{Options: opts, reply: make(chan answer, 1)}

	select {
	case p.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	case <-p.done:
		return false, ErrClosed
	}

	select {
	case a := <-req.reply:
		return a.granted, a.err
	case <-ctx.Done():
		return false, ctx.Err()
	case <-p.done:
		return false, ErrClosed
	}
}

// Close releases every blocked Confirm. Safe to call more than once.
func (p *Prompter) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}

// WaitForRequest returns a tea.Cmd that waits for the next question.
// Call it again after handling a RequestMsg to keep listening.
func (p *Prompter) WaitForRequest() tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-p.requests:
			return RequestMsg{Request: req}
		case <-p.done:
			return nil
		}
	}
}
