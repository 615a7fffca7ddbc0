package scheduler

import (
	"sort"
	"sync"
	"time"
)

// job is a unit of pending work on the virtual clock.
type job struct {
	id  string
	gen uint64
	at  time.Time
	seq uint64
	fn  func()
}

// Test is a Scheduler driven by a virtual clock. Nothing fires until
// Advance moves the clock past a job's due time; due jobs then run
// synchronously on the caller's goroutine in due-time order, ties broken
// by submission order.
type Test struct {
	mu   sync.Mutex
	now  time.Time
	seq  uint64
	gens map[string]uint64
	jobs []job
}

// NewTest creates a virtual-time scheduler starting at start.
func NewTest(start time.Time) *Test {
	return &Test{now: start, gens: make(map[string]uint64)}
}

// Now returns the virtual time.
func (t *Test) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now
}

// Debounce implements Scheduler.
func (t *Test) Debounce(id string, delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gens[id]++
	t.seq++
	t.jobs = append(t.jobs, job{
		id:  id,
		gen: t.gens[id],
		at:  t.now.Add(delay),
		seq: t.seq,
		fn:  fn,
	})
	t.prune()
}

// Cancel implements Scheduler.
func (t *Test) Cancel(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gens[id]++
	t.prune()
}

// Pending returns how many jobs are waiting to fire.
func (t *Test) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.jobs)
}

// Advance moves the clock forward by d, running every job that falls due
// on the way. Jobs scheduled by a running job fire in the same call if
// they fall due before the new time.
func (t *Test) Advance(d time.Duration) {
	t.mu.Lock()
	target := t.now.Add(d)
	t.mu.Unlock()

	for {
		t.mu.Lock()
		next, ok := t.popDue(target)
		if !ok {
			t.now = target
			t.mu.Unlock()
			return
		}
		t.now = next.at
		t.mu.Unlock()

		next.fn()
	}
}

// Run advances the clock until no jobs are left.
func (t *Test) Run() {
	for {
		t.mu.Lock()
		if len(t.jobs) == 0 {
			t.mu.Unlock()
			return
		}
		t.sortJobs()
		d := t.jobs[0].at.Sub(t.now)
		t.mu.Unlock()

		t.Advance(d)
	}
}

// popDue removes and returns the earliest job due at or before target.
// Caller holds t.mu.
func (t *Test) popDue(target time.Time) (job, bool) {
	t.prune()
	if len(t.jobs) == 0 {
		return job{}, false
	}
	t.sortJobs()
	if t.jobs[0].at.After(target) {
		return job{}, false
	}
	next := t.jobs[0]
	t.jobs = t.jobs[1:]
	return next, true
}

// prune drops jobs superseded by a newer generation. Caller holds t.mu.
func (t *Test) prune() {
	live := t.jobs[:0]
	for _, j := range t.jobs {
		if j.gen == t.gens[j.id] {
			live = append(live, j)
		}
	}
	t.jobs = live
}

// sortJobs orders jobs by due time, then submission order. Caller holds t.mu.
func (t *Test) sortJobs() {
	sort.SliceStable(t.jobs, func(i, k int) bool {
		if !t.jobs[i].at.Equal(t.jobs[k].at) {
			return t.jobs[i].at.Before(t.jobs[k].at)
		}
		return t.jobs[i].seq < t.jobs[k].seq
	})
}
