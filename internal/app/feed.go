package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todos/internal/todos"
)

// stateMsg carries the latest store state into the UI.
type stateMsg struct {
	state todos.State
}

// Feed forwards store snapshots to the UI. Only the latest snapshot is
// kept; the UI never needs the ones in between.
type Feed struct {
	mu     sync.Mutex
	latest todos.State

	ready       chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
	unsubscribe func()
}

// NewFeed subscribes to s.
func NewFeed(s *todos.Store) *Feed {
	f := &Feed{
		latest: s.State(),
		ready:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	f.unsubscribe = s.Subscribe(f.publish)
	return f
}

func (f *Feed) publish(state todos.State) {
	f.mu.Lock()
	f.latest = state
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// Latest returns the most recent snapshot.
func (f *Feed) Latest() todos.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

// Wait returns a tea.Cmd that waits for the next change. Call it again
// after handling a stateMsg to keep listening.
func (f *Feed) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.ready:
			return stateMsg{state: f.Latest()}
		case <-f.done:
			return nil
		}
	}
}

// Close unsubscribes and releases any waiter.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		f.unsubscribe()
		close(f.done)
	})
}
