// Package scheduler runs delayed work for the todos store. Work is keyed:
// scheduling under a key that already has pending work replaces it, so
// each key holds at most one pending firing.
package scheduler

import (
	"sync"
	"time"
)

// Scheduler runs fn once delay has elapsed, unless newer work is
// scheduled under the same id first.
type Scheduler interface {
	// Debounce cancels any pending work under id and schedules fn.
	Debounce(id string, delay time.Duration, fn func())

	// Cancel drops pending work under id, if any.
	Cancel(id string)
}

// slot is the per-key debounce state. gen increases on every Debounce;
// a firing closure only runs if the generation it captured is current.
type slot struct {
	gen   uint64
	timer *time.Timer
}

// Main is a real-time Scheduler backed by time.AfterFunc. Work runs on
// the timer's goroutine. Safe for concurrent use.
type Main struct {
	mu      sync.Mutex
	slots   map[string]*slot
	stopped bool
}

// NewMain creates a real-time scheduler.
func NewMain() *Main {
	return &Main{slots: make(map[string]*slot)}
}

// Debounce implements Scheduler.
func (m *Main) Debounce(id string, delay time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}

	s, ok := m.slots[id]
	if !ok {
		s = &slot{}
		m.slots[id] = s
	}
	if s.timer != nil {
		s.timer.Stop()
	}

	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(delay, func() {
		m.mu.Lock()
		current := !m.stopped && s.gen == gen
		if current {
			s.timer = nil
		}
		m.mu.Unlock()

		if current {
			fn()
		}
	})
}

// Cancel implements Scheduler.
func (m *Main) Cancel(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[id]
	if !ok {
		return
	}
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Stop cancels all pending work. Later calls to Debounce are ignored.
func (m *Main) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	for _, s := range m.slots {
		s.gen++
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
	}
}
