package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/todos/internal/model"
)

// deliverTimeout bounds a single delivery attempt.
const deliverTimeout = 30 * time.Second

// Deliverer shows a due reminder to the user somewhere.
type Deliverer interface {
	Name() string
	Deliver(ctx context.Context, r model.Reminder) error
}

// DueStore is the part of store.Store the poller needs.
type DueStore interface {
	UpsertReminder(ctx context.Context, r model.Reminder) error
	GetDueReminders(ctx context.Context, now time.Time) ([]model.Reminder, error)
	MarkReminderDelivered(ctx context.Context, id string, at time.Time) error
}

// DeliveredMsg is a tea.Msg sent after a reminder has been delivered.
type DeliveredMsg struct {
	Reminder model.Reminder
	Err      error
}

// Poller periodically delivers due reminders.
type Poller struct {
	store      DueStore
	deliverers []Deliverer
	interval   time.Duration
	now        func() time.Time
	logger     *log.Logger

	resultCh  chan DeliveredMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	done      chan struct{}
	mu        sync.Mutex
	running   bool
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollerClock replaces time.Now.
func WithPollerClock(now func() time.Time) PollerOption {
	return func(p *Poller) { p.now = now }
}

// WithPollerLogger sets the logger.
func WithPollerLogger(l *log.Logger) PollerOption {
	return func(p *Poller) { p.logger = l }
}

// NewPoller creates a poller checking s every interval and handing due
// reminders to every deliverer.
func NewPoller(s DueStore, interval time.Duration, deliverers []Deliverer, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	p := &Poller{
		store:      s,
		deliverers: deliverers,
		interval:   interval,
		now:        time.Now,
		logger:     log.Default(),
		resultCh:   make(chan DeliveredMsg, 16),
		triggerCh:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the polling goroutine. It stops when ctx is done or
// Stop is called. Starting a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})

	go p.loop(ctx, p.stopCh, p.done)
}

// Stop halts the polling goroutine and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	done := p.done
	p.running = false
	p.mu.Unlock()

	<-done
}

// Trigger requests an immediate poll.
func (p *Poller) Trigger() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A poll is already pending.
	}
}

func (p *Poller) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollLogged(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			p.pollLogged(ctx)
		case <-p.triggerCh:
			p.pollLogged(ctx)
		}
	}
}

func (p *Poller) pollLogged(ctx context.Context) {
	if _, err := p.PollOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("polling reminders", "err", err)
	}
}

// PollOnce delivers every reminder due now and reports how many were
// delivered. A reminder is marked delivered once at least one deliverer
// accepted it; if all of them fail it stays due and is retried on the
// next poll. Repeating reminders are re-armed instead.
func (p *Poller) PollOnce(ctx context.Context) (int, error) {
	now := p.now()
	due, err := p.store.GetDueReminders(ctx, now)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, r := range due {
		failed, derr := p.deliver(ctx, r)
		if len(p.deliverers) > 0 && failed == len(p.deliverers) {
			p.logger.Warn("reminder not delivered", "identifier", r.Identifier, "err", derr)
			p.sendResult(DeliveredMsg{Reminder: r, Err: derr})
			continue
		}

		if err := p.settle(ctx, r, now); err != nil {
			return delivered, err
		}
		delivered++
		p.logger.Info("reminder delivered", "identifier", r.Identifier, "title", r.Title)
		p.sendResult(DeliveredMsg{Reminder: r, Err: derr})
	}
	return delivered, nil
}

// deliver hands r to every deliverer. It returns how many failed and
// their joined errors.
func (p *Poller) deliver(ctx context.Context, r model.Reminder) (int, error) {
	var errs []error
	for _, d := range p.deliverers {
		dctx, cancel := context.WithTimeout(ctx, deliverTimeout)
		err := d.Deliver(dctx, r)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
		}
	}
	return len(errs), errors.Join(errs...)
}

// settle marks r delivered, or moves a repeating reminder to its next
// firing.
func (p *Poller) settle(ctx context.Context, r model.Reminder, now time.Time) error {
	if !r.Repeats {
		return p.store.MarkReminderDelivered(ctx, r.ID, now)
	}

	interval := r.FireAt.Sub(r.CreatedAt)
	if interval <= 0 {
		return p.store.MarkReminderDelivered(ctx, r.ID, now)
	}
	next := r
	next.CreatedAt = now
	next.FireAt = now.Add(interval)
	return p.store.UpsertReminder(ctx, next)
}

// sendResult sends msg without blocking.
func (p *Poller) sendResult(msg DeliveredMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if nobody is listening.
	}
}

// WaitForDelivery returns a tea.Cmd that waits for the next delivery.
// Call it again after handling a DeliveredMsg to keep listening.
func (p *Poller) WaitForDelivery() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return msg
	}
}
