package loop

import (
	"container/heap"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval is the animation frame period (60 Hz).
const DefaultFrameInterval = 16 * time.Millisecond

var (
	// ErrLoopRunning is returned when Run is called on a running loop.
	ErrLoopRunning = errors.New("loop: already running")

	// ErrManualClock is returned by Advance when the loop uses a real clock.
	ErrManualClock = errors.New("loop: Advance requires a ManualClock")
)

// Loop is a cooperative, single-goroutine scheduler of tasks, microtasks
// and timers.
type Loop struct {
	clock         Clock
	anchor        time.Time
	frameInterval time.Duration
	logger        *slog.Logger

	mu         sync.Mutex
	ingress    []func()
	microtasks []func()
	timers     timerHeap
	seq        uint64

	wake    chan struct{}
	running atomic.Bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock sets the loop's time source.
func WithClock(c Clock) Option {
	return func(l *Loop) {
		l.clock = c
	}
}

// WithFrameInterval sets the animation frame period.
func WithFrameInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// WithLogger sets the loop's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// New creates a loop. The default clock is the wall clock.
func New(opts ...Option) *Loop {
	l := &Loop{
		clock:         realClock{},
		frameInterval: DefaultFrameInterval,
		logger:        slog.Default(),
		wake:          make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.anchor = l.clock.Now()
	return l
}

// Now returns the loop clock's current time.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// QueueMicrotask defers fn until the current task finishes.
func (l *Loop) QueueMicrotask(fn func()) {
	l.mu.Lock()
	l.microtasks = append(l.microtasks, fn)
	l.mu.Unlock()
}

// Flush runs queued microtasks, including any they queue, until none remain.
func (l *Loop) Flush() {
	for {
		l.mu.Lock()
		if len(l.microtasks) == 0 {
			l.mu.Unlock()
			return
		}
		batch := l.microtasks
		l.microtasks = nil
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
	}
}

// Do runs fn as a task on the calling goroutine and drains microtasks
// before returning. The caller must be the loop's owning goroutine.
func (l *Loop) Do(fn func()) {
	fn()
	l.Flush()
}

// Dispatch queues fn to run as a task. It is safe to call from any goroutine.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	l.ingress = append(l.ingress, fn)
	l.mu.Unlock()
	l.signal()
}

// Call dispatches fn and waits for it to finish or for ctx to be done.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Dispatch(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Timer is a pending callback scheduled on a Loop.
type Timer struct {
	loop    *Loop
	when    time.Time
	fn      func()
	seq     uint64
	index   int
	stopped bool
}

// When returns the time the timer fires.
func (t *Timer) When() time.Time {
	return t.when
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (t *Timer) Stop() bool {
	l := t.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.stopped || t.index < 0 {
		return false
	}
	t.stopped = true
	heap.Remove(&l.timers, t.index)
	return true
}

// AfterFunc schedules fn to run as a task after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	return l.schedule(l.clock.Now().Add(d), fn)
}

// RequestFrame schedules fn for the next animation frame boundary.
func (l *Loop) RequestFrame(fn func(frame time.Time)) *Timer {
	now := l.clock.Now()
	elapsed := now.Sub(l.anchor) % l.frameInterval
	when := now.Add(l.frameInterval - elapsed)
	return l.schedule(when, func() { fn(when) })
}

func (l *Loop) schedule(when time.Time, fn func()) *Timer {
	l.mu.Lock()
	l.seq++
	t := &Timer{loop: l, when: when, fn: fn, seq: l.seq}
	heap.Push(&l.timers, t)
	l.mu.Unlock()
	l.signal()
	return t
}

// Pending returns the number of timers waiting to fire.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// RunPending runs every dispatched task and every timer that is due now,
// draining microtasks after each. It returns the number of callbacks run.
func (l *Loop) RunPending() int {
	ran := 0
	for {
		task := l.next(l.clock.Now())
		if task == nil {
			return ran
		}
		ran++
		l.Do(task)
	}
}

// next pops the next runnable callback: dispatched tasks first, then the
// earliest due timer.
func (l *Loop) next(now time.Time) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.ingress) > 0 {
		fn := l.ingress[0]
		l.ingress = l.ingress[1:]
		return fn
	}
	if len(l.timers) > 0 && !l.timers[0].when.After(now) {
		t := heap.Pop(&l.timers).(*Timer)
		return t.fn
	}
	return nil
}

// Advance moves a ManualClock forward by d, firing timers in time order at
// their scheduled instants.
func (l *Loop) Advance(d time.Duration) error {
	mc, ok := l.clock.(*ManualClock)
	if !ok {
		return ErrManualClock
	}
	target := mc.Now().Add(d)
	for {
		l.RunPending()

		l.mu.Lock()
		var when time.Time
		due := len(l.timers) > 0 && !l.timers[0].when.After(target)
		if due {
			when = l.timers[0].when
		}
		l.mu.Unlock()

		if !due {
			break
		}
		mc.Set(when)
	}
	mc.Set(target)
	l.RunPending()
	return nil
}

// Run processes tasks and timers in real time until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		l.RunPending()

		var (
			t     *time.Timer
			fired <-chan time.Time
		)
		if wait, ok := l.untilNextTimer(); ok {
			t = time.NewTimer(wait)
			fired = t.C
		}

		select {
		case <-ctx.Done():
			if t != nil {
				t.Stop()
			}
			l.logger.Debug("loop stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-l.wake:
		case <-fired:
		}
		if t != nil {
			t.Stop()
		}
	}
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}

func (l *Loop) untilNextTimer() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return 0, false
	}
	wait := l.timers[0].when.Sub(l.clock.Now())
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

// timerHeap is a min-heap of timers ordered by fire time, then creation.
type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
