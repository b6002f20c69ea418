package prop

import (
	"sync"

	"github.com/vango-dev/velement/pkg/coerce"
)

// ExternalRef is a live value that lives outside an element's store.
//
// A property bound to an ExternalRef forwards local writes to Set and
// receives pushes through the Subscribe callback. The store calls the
// returned unsubscribe function when the element unmounts.
type ExternalRef interface {
	Get() any
	Set(v any)
	Subscribe(fn func(v any)) (unsubscribe func())
}

// Ref is a thread-safe ExternalRef. Several elements may bind the same Ref
// to share one value.
type Ref struct {
	mu     sync.RWMutex
	value  any
	nextID uint64
	subs   map[uint64]func(any)
}

// NewRef creates a Ref holding initial.
func NewRef(initial any) *Ref {
	return &Ref{
		value: initial,
		subs:  make(map[uint64]func(any)),
	}
}

// Get returns the current value.
func (r *Ref) Get() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set stores v and notifies subscribers when the value changed.
// Subscribers are called without the lock held.
func (r *Ref) Set(v any) {
	r.mu.Lock()
	if coerce.Equal(r.value, v) {
		r.mu.Unlock()
		return
	}
	r.value = v
	subs := make([]func(any), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn for change notifications.
func (r *Ref) Subscribe(fn func(any)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (r *Ref) Subscribers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
