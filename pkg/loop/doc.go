// Package loop provides the single-goroutine event loop elements run on.
//
// Elements are not thread-safe. All property writes, lifecycle callbacks,
// timers and plugin callbacks for a set of elements run as tasks on one Loop.
// After every task and every timer callback the loop drains its microtask
// queue, so work deferred with QueueMicrotask runs after the current call
// stack unwinds and before the next task starts:
//
//	l := loop.New()
//	l.Do(func() {
//	    el.Set("a", 1)
//	    el.Set("b", 2)
//	})  // the batched render microtask has run here, once
//
// Other goroutines hand work to the loop with Dispatch or Call. Run drives
// the loop in real time; tests use a ManualClock and Advance instead.
package loop
