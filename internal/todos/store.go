package todos

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nhle/todos/internal/scheduler"
)

// Store owns the application state and sequences actions through
// Reduce. Actions are reduced one at a time in the order they were sent;
// an action sent while another is being reduced (by an observer, an
// effect or a scheduler firing) waits in the queue until the current
// reduction and its notifications are done.
//
// Run effects are performed in the order their reductions happened, one
// at a time, on a single background worker.
//
// Store is safe for concurrent use.
type Store struct {
	env    Environment
	sched  scheduler.Scheduler
	logger *log.Logger
	sync   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// runs holds Run effects not yet started. One worker drains it, so
	// effects run one at a time in the order they were produced.
	runMu   sync.Mutex
	runs    []Run
	running bool

	mu        sync.Mutex
	state     State
	queue     []Action
	draining  bool
	closed    bool
	observers map[int]func(State)
	nextObs   int
}

// Option configures a Store.
type Option func(*Store)

// WithSyncEffects runs Run effects inline, right after the reduction that
// produced them, instead of on their own goroutine.
func WithSyncEffects() Option {
	return func(s *Store) { s.sync = true }
}

// NewStore creates a store holding initial. sched runs debounced
// actions; nil uses a real-time scheduler.
func NewStore(initial State, env Environment, sched scheduler.Scheduler, opts ...Option) *Store {
	if sched == nil {
		sched = scheduler.NewMain()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		env:       env,
		sched:     sched,
		logger:    env.logger(),
		ctx:       ctx,
		cancel:    cancel,
		state:     initial,
		observers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every reduction.
// The returned function removes the registration.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Send queues action and, unless another goroutine is already draining
// the queue, reduces queued actions until the queue is empty.
func (s *Store) Send(action Action) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, action)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	// A panicking observer or effect must not leave the queue without a
	// drainer.
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.draining = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		st, ok := s.reduceNext()
		if !ok {
			return
		}

		s.logger.Debug("reduced", "action", fmt.Sprintf("%T", st.action), "tasks", len(st.snapshot.Tasks))
		for _, fn := range st.observers {
			fn(st.snapshot)
		}
		s.perform(st.effect)
	}
}

// step is the outcome of reducing one queued action.
type step struct {
	action    Action
	effect    Effect
	snapshot  State
	observers []func(State)
}

// reduceNext reduces the oldest queued action. It reports false, and
// stops draining, once the queue is empty.
func (s *Store) reduceNext() (step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		s.draining = false
		return step{}, false
	}
	next := s.queue[0]
	s.queue = s.queue[1:]

	eff := Reduce(&s.state, next, s.env)
	return step{
		action:    next,
		effect:    eff,
		snapshot:  s.state.Clone(),
		observers: s.observerList(),
	}, true
}

// Wait blocks until every Run effect queued so far has returned.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close drops the pending completion sort, waits for running effects
// and stops accepting actions.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.sched.Cancel(TaskCompletionID)
	s.wg.Wait()
	s.cancel()
}

// observerList copies the observers in registration order. Caller holds s.mu.
func (s *Store) observerList() []func(State) {
	list := make([]func(State), 0, len(s.observers))
	for id := 0; id < s.nextObs; id++ {
		if fn, ok := s.observers[id]; ok {
			list = append(list, fn)
		}
	}
	return list
}

func (s *Store) perform(eff Effect) {
	switch e := eff.(type) {
	case nil:
		return

	case Debounce:
		action := e.Action
		s.sched.Debounce(e.ID, e.Delay, func() { s.Send(action) })

	case Run:
		if s.sync {
			s.run(e)
			return
		}
		s.enqueueRun(e)
	}
}

// enqueueRun appends e to the run queue and starts the worker if it is
// idle.
func (s *Store) enqueueRun(e Run) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.runs = append(s.runs, e)
	if s.running {
		return
	}
	s.running = true
	s.wg.Add(1)
	go s.drainRuns()
}

// drainRuns runs queued effects until the queue is empty.
func (s *Store) drainRuns() {
	defer s.wg.Done()
	for {
		s.runMu.Lock()
		if len(s.runs) == 0 {
			s.running = false
			s.runMu.Unlock()
			return
		}
		e := s.runs[0]
		s.runs = s.runs[1:]
		s.runMu.Unlock()

		s.run(e)
	}
}

func (s *Store) run(e Run) {
	if err := e.Fn(s.ctx); err != nil {
		s.logger.Error("effect failed", "effect", e.Name, "err", err)
	}
}
