package element

import (
	stderrors "errors"
	"sort"

	"github.com/vango-dev/velement/internal/errors"
)

// Hooks are a plugin's lifecycle callbacks. Any may be nil.
//
// Unmount must release everything the plugin acquired: listeners, timers,
// observers and in-flight requests. The element calls it exactly once per
// mount cycle.
type Hooks struct {
	PreMount func()
	Mount    func()
	Unmount  func()
}

// Plugin is a plugin factory. It runs once at construction and may
// register capabilities with Provide.
type Plugin func(el *Element, cfg Config) Hooks

// ErrCapabilityExists is wrapped by Provide when the name is taken.
var ErrCapabilityExists = stderrors.New("capability already registered")

// Key names a capability of type T.
type Key[T any] struct {
	name string
}

// NewKey returns the key for a capability namespace.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the capability namespace.
func (k Key[T]) Name() string {
	return k.name
}

// Registry holds the capabilities plugins attached to one element.
type Registry struct {
	caps map[string]any
}

func newRegistry() *Registry {
	return &Registry{caps: make(map[string]any)}
}

// Names returns the registered namespaces in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.caps))
	for name := range r.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a capability is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.caps[name]
	return ok
}

// Provide registers v as el's capability for key.
func Provide[T any](el *Element, key Key[T], v T) error {
	if el.plugins.Has(key.name) {
		return errors.New("E104").WithDetail(key.name).Wrap(ErrCapabilityExists)
	}
	el.plugins.caps[key.name] = v
	return nil
}

// Capability returns el's capability for key.
func Capability[T any](el *Element, key Key[T]) (T, bool) {
	v, ok := el.plugins.caps[key.name].(T)
	return v, ok
}
