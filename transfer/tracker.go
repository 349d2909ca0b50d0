package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
)

// DefaultReconciliationDelay is how long after confirmation the owner's
// tokens are fetched again, giving the indexer time to catch up.
const DefaultReconciliationDelay = 3 * time.Second

type State int

const (
	StateIdle State = iota
	StateSubmitted
	StateHashKnown
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitted:
		return "submitted"
	case StateHashKnown:
		return "hash_known"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateFailed
}

// Record is what is known about the current attempt's transaction.
type Record struct {
	Hash     string
	Receipt  *types.Receipt
	Finished bool
	Err      error
}

// apply is the tracker's transition function. Events that don't fit the
// current state are ignored.
func (r Record) apply(s State, ev Event) (Record, State) {
	if s == StateIdle || s.Terminal() {
		return r, s
	}
	switch ev.Kind {
	case EventHash:
		if s != StateSubmitted {
			return r, s
		}
		r.Hash = ev.Hash
		return r, StateHashKnown
	case EventReceipt:
		r.Receipt = ev.Receipt
		if r.Hash == "" && ev.Receipt != nil {
			r.Hash = ev.Receipt.TxHash.Hex()
		}
		if ev.Succeeded() {
			r.Finished = true
			return r, StateConfirmed
		}
		r.Err = ErrTransactionFailed
		return r, StateFailed
	case EventError:
		r.Err = ev.Err
		return r, StateFailed
	}
	return r, s
}

// Scheduler runs f once after d, stop cancels it and reports whether it
// did so before f ran.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Tracker follows one transfer attempt at a time and, once it is confirmed,
// runs refresh after the reconciliation delay.
type Tracker struct {
	mu       sync.Mutex
	state    State
	record   Record
	attempt  uint64
	started  time.Time
	closed   bool
	stop     func() bool
	subs     map[int]func(State, Record)
	nextSub  int
	delay    time.Duration
	refresh  func()
	schedule Scheduler
}

func NewTracker(delay time.Duration, refresh func()) *Tracker {
	return &Tracker{
		delay:    delay,
		refresh:  refresh,
		schedule: afterFunc,
		subs:     map[int]func(State, Record){},
	}
}

// WithScheduler replaces time.AfterFunc, tests use it to fire the refresh
// by hand.
func (t *Tracker) WithScheduler(s Scheduler) *Tracker {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.schedule = s
	return t
}

func (t *Tracker) Snapshot() (State, Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.record
}

// Subscribe registers fn for every transition. Callbacks run outside the
// tracker's lock on the goroutine that caused the transition.
func (t *Tracker) Subscribe(fn func(State, Record)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

func (t *Tracker) notify(s State, r Record) {
	t.mu.Lock()
	subs := make([]func(State, Record), 0, len(t.subs))
	for i := 0; i < t.nextSub; i++ {
		if fn, ok := t.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	t.mu.Unlock()
	for _, fn := range subs {
		fn(s, r)
	}
}

func (t *Tracker) cancelRefreshLocked() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

// Reset drops the previous attempt, including a pending refresh.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.cancelRefreshLocked()
	t.attempt++
	t.state = StateIdle
	t.record = Record{}
	t.mu.Unlock()
	t.notify(StateIdle, Record{})
}

// Begin starts a new attempt and returns its id. Events for older attempts
// are ignored from now on.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	t.cancelRefreshLocked()
	t.attempt++
	id := t.attempt
	t.state = StateSubmitted
	t.record = Record{}
	t.started = time.Now()
	t.mu.Unlock()
	t.notify(StateSubmitted, Record{})
	return id
}

// Elapsed is the time since the current attempt began.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.started)
}

func (t *Tracker) Observe(attempt uint64, ev Event) State {
	t.mu.Lock()
	if attempt != t.attempt || t.closed {
		s := t.state
		t.mu.Unlock()
		return s
	}
	prev := t.state
	t.record, t.state = t.record.apply(t.state, ev)
	s, r := t.state, t.record
	confirmed := s == StateConfirmed && prev != StateConfirmed && t.refresh != nil
	schedule, delay := t.schedule, t.delay
	t.mu.Unlock()
	if s != prev {
		t.notify(s, r)
	}
	if confirmed {
		t.scheduleRefresh(attempt, schedule, delay)
	}
	return s
}

// scheduleRefresh runs outside the lock so a scheduler may call f right away.
func (t *Tracker) scheduleRefresh(attempt uint64, schedule Scheduler, delay time.Duration) {
	stop := schedule(delay, func() { t.fire(attempt) })
	t.mu.Lock()
	defer t.mu.Unlock()
	if attempt != t.attempt || t.closed {
		// superseded or closed while scheduling
		stop()
		return
	}
	t.stop = stop
}

// Fail moves a live attempt to Failed with err.
func (t *Tracker) Fail(attempt uint64, err error) State {
	return t.Observe(attempt, Event{Kind: EventError, Err: err})
}

func (t *Tracker) fire(attempt uint64) {
	t.mu.Lock()
	if attempt != t.attempt || t.closed {
		t.mu.Unlock()
		return
	}
	t.stop = nil
	refresh := t.refresh
	t.mu.Unlock()
	refresh()
}

// Track feeds events into the tracker until the channel closes, the
// attempt is terminal or ctx ends, and returns the state reached.
func (t *Tracker) Track(ctx context.Context, attempt uint64, events <-chan Event) State {
	for {
		select {
		case <-ctx.Done():
			s, _ := t.Snapshot()
			return s
		case ev, ok := <-events:
			if !ok {
				s, _ := t.Snapshot()
				return s
			}
			if s := t.Observe(attempt, ev); s.Terminal() {
				return s
			}
		}
	}
}

// Close cancels a pending refresh. Later events are ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.cancelRefreshLocked()
}
