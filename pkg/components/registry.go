// Package components contains demo elements built on package element and
// a registry that maps tag names to their constructors.
package components

import (
	"sort"

	"github.com/vango-dev/velement/internal/errors"
	"github.com/vango-dev/velement/pkg/element"
)

// Factory constructs an element. cfg carries the host, loop and ambient
// settings; the factory adds the component's own properties and plugins.
type Factory func(cfg element.Config) (*element.Element, error)

// Registry maps tags to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default returns a registry holding x-counter, x-clock and x-badge.
func Default() *Registry {
	r := NewRegistry()
	r.Register(CounterTag, NewCounter)
	r.Register(ClockTag, NewClock)
	r.Register(BadgeTag, NewBadge)
	return r
}

// Register adds or replaces the factory for tag.
func (r *Registry) Register(tag string, f Factory) {
	r.factories[tag] = f
}

// Lookup returns the factory for tag.
func (r *Registry) Lookup(tag string) (Factory, bool) {
	f, ok := r.factories[tag]
	return f, ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Build constructs the element registered for tag.
func (r *Registry) Build(tag string, cfg element.Config) (*element.Element, error) {
	f, ok := r.factories[tag]
	if !ok {
		return nil, errors.New("E203").
			WithDetail(tag).
			WithSuggestion("Use one of the registered tags")
	}
	return f(cfg)
}

// bind records the element in *dst as soon as it exists, before an
// already connected host mounts it.
func bind(dst **element.Element) element.Plugin {
	return func(el *element.Element, _ element.Config) element.Hooks {
		*dst = el
		return element.Hooks{}
	}
}
