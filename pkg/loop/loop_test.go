package loop

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newManual() (*Loop, *ManualClock) {
	clk := NewManualClock(epoch)
	return New(WithClock(clk)), clk
}

func TestDoDrainsMicrotasks(t *testing.T) {
	l, _ := newManual()
	var order []string

	l.Do(func() {
		l.QueueMicrotask(func() {
			order = append(order, "micro1")
			l.QueueMicrotask(func() { order = append(order, "nested") })
		})
		order = append(order, "task")
		l.QueueMicrotask(func() { order = append(order, "micro2") })
	})

	want := []string{"task", "micro1", "micro2", "nested"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestMicrotasksRunBetweenTasks(t *testing.T) {
	l, _ := newManual()
	var order []string

	l.Dispatch(func() {
		order = append(order, "A")
		l.QueueMicrotask(func() { order = append(order, "microA") })
	})
	l.Dispatch(func() { order = append(order, "B") })

	if n := l.RunPending(); n != 2 {
		t.Errorf("RunPending = %d, want 2", n)
	}
	want := []string{"A", "microA", "B"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestAfterFuncOrdering(t *testing.T) {
	l, clk := newManual()
	var fired []string
	var at []time.Duration

	record := func(name string) func() {
		return func() {
			fired = append(fired, name)
			at = append(at, clk.Now().Sub(epoch))
		}
	}
	l.AfterFunc(30*time.Millisecond, record("c"))
	l.AfterFunc(10*time.Millisecond, record("a"))
	l.AfterFunc(10*time.Millisecond, record("b"))

	if err := l.Advance(50 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fired, []string{"a", "b", "c"}) {
		t.Errorf("fired = %v", fired)
	}
	if !reflect.DeepEqual(at, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond, 30 * time.Millisecond}) {
		t.Errorf("fire times = %v", at)
	}
	if clk.Now().Sub(epoch) != 50*time.Millisecond {
		t.Errorf("clock = %v", clk.Now().Sub(epoch))
	}
}

func TestTimerStop(t *testing.T) {
	l, _ := newManual()
	ran := false
	tm := l.AfterFunc(time.Second, func() { ran = true })

	if !tm.Stop() {
		t.Error("Stop should report a pending timer")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	l.Advance(2 * time.Second)
	if ran {
		t.Error("stopped timer fired")
	}
	if l.Pending() != 0 {
		t.Errorf("Pending = %d", l.Pending())
	}
}

func TestTimerRescheduledFromCallback(t *testing.T) {
	l, _ := newManual()
	count := 0
	var tick func()
	tick = func() {
		count++
		l.AfterFunc(100*time.Millisecond, tick)
	}
	l.AfterFunc(100*time.Millisecond, tick)

	l.Advance(350 * time.Millisecond)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestRequestFrame(t *testing.T) {
	l, _ := newManual()
	var frames []time.Time

	l.Advance(5 * time.Millisecond)
	l.RequestFrame(func(ts time.Time) { frames = append(frames, ts) })
	l.Advance(20 * time.Millisecond)

	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
	if got := frames[0].Sub(epoch); got != DefaultFrameInterval {
		t.Errorf("frame at %v, want %v", got, DefaultFrameInterval)
	}
}

func TestAdvanceRequiresManualClock(t *testing.T) {
	if err := New().Advance(time.Second); err != ErrManualClock {
		t.Errorf("Advance error = %v, want ErrManualClock", err)
	}
}

func TestRunAndCall(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var mu sync.Mutex
	value := 0
	if err := l.Call(ctx, func() {
		mu.Lock()
		value = 42
		mu.Unlock()
	}); err != nil {
		t.Fatalf("Call: %v", err)
	}

	fired := make(chan struct{})
	l.Dispatch(func() {
		l.AfterFunc(5*time.Millisecond, func() { close(fired) })
	})
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire under Run")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if value != 42 {
		t.Errorf("value = %d", value)
	}
}

func TestCallContextDone(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Call(ctx, func() {}); err != context.Canceled {
		t.Errorf("Call = %v, want context.Canceled", err)
	}
}
