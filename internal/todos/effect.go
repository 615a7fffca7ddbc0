package todos

import (
	"context"
	"time"
)

// Effect is the side effect a reduction asks the store to perform.
// A nil Effect means none.
type Effect interface{ effect() }

// Debounce asks the store to send Action after Delay, replacing any
// pending Debounce with the same ID.
type Debounce struct {
	ID     string
	Delay  time.Duration
	Action Action
}

// Run is fire-and-forget work against an external capability. Its
// outcome never feeds back into state; a returned error is only logged.
type Run struct {
	Name string
	Fn   func(ctx context.Context) error
}

func (Debounce) effect() {}
func (Run) effect()      {}
