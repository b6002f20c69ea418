// Package render schedules element renders and provides escaping helpers
// for the markup that render functions produce.
//
// A Scheduler either renders synchronously on every request or coalesces all
// requests made during one loop task into a single render that runs in a
// microtask:
//
//	s := render.NewScheduler(true, l, el.render)
//	s.Request()
//	s.Request()   // no-op, a render is already pending
//	l.Flush()     // one render
//
// Cancel drops a pending render; its queued microtask becomes a no-op.
//
// Render functions build markup strings directly. EscapeHTML and EscapeAttr
// must be applied to any property value interpolated into that markup.
package render
