package render

// MicrotaskQueue defers work until the current loop task completes.
type MicrotaskQueue interface {
	QueueMicrotask(fn func())
}

// Scheduler decides when an element renders.
type Scheduler struct {
	batch  bool
	queue  MicrotaskQueue
	render func()

	pending bool
	epoch   uint64
}

// NewScheduler creates a scheduler around render. With batch set, requests
// are coalesced through queue; a nil queue forces synchronous rendering.
func NewScheduler(batch bool, queue MicrotaskQueue, render func()) *Scheduler {
	return &Scheduler{
		batch:  batch && queue != nil,
		queue:  queue,
		render: render,
	}
}

// Batched reports whether renders are coalesced.
func (s *Scheduler) Batched() bool {
	return s.batch
}

// Pending reports whether a batched render is queued.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Request asks for a render. Synchronous schedulers render immediately.
// Batched schedulers queue one render per task; further requests while it
// is pending are no-ops.
func (s *Scheduler) Request() {
	if !s.batch {
		s.render()
		return
	}
	if s.pending {
		return
	}
	s.pending = true
	epoch := s.epoch
	s.queue.QueueMicrotask(func() {
		if epoch != s.epoch {
			return
		}
		s.pending = false
		s.render()
	})
}

// Cancel drops any pending render.
func (s *Scheduler) Cancel() {
	s.epoch++
	s.pending = false
}
