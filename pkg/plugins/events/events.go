// Package events binds host event listeners to an element's lifecycle.
//
// Direct bindings listen on the host node. Delegated bindings listen on the
// render root and fire for the closest ancestor of the event target that
// matches a selector, so re-rendered content needs no re-binding.
//
// Listeners are attached at mount and removed at unmount. Bindings made
// with Persist survive unmount and are attached again on the next mount;
// all others are dropped.
package events

import (
	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host"
)

// Key is the capability namespace of the events plugin.
var Key = element.NewKey[*Events]("events")

// Handler handles an event. match is the host node for direct bindings
// and the matched descendant for delegated ones.
type Handler func(ev *host.Event, match host.Element)

// Option configures a binding.
type Option func(*binding)

// Persist keeps the binding across unmount.
func Persist() Option {
	return func(b *binding) {
		b.persist = true
	}
}

type binding struct {
	id       int
	typ      string
	selector string
	fn       Handler
	persist  bool
	remove   func()
}

// Events manages the event bindings of one element.
type Events struct {
	el       *element.Element
	bindings []*binding
	nextID   int
	mounted  bool
}

// New returns the events plugin.
func New() element.Plugin {
	return func(el *element.Element, _ element.Config) element.Hooks {
		ev := &Events{el: el}
		if err := element.Provide(el, Key, ev); err != nil {
			el.Logger().Error("events plugin not installed", "error", err)
			return element.Hooks{}
		}
		return element.Hooks{
			Mount:   ev.mount,
			Unmount: ev.unmount,
		}
	}
}

// From returns the events capability of el.
func From(el *element.Element) (*Events, bool) {
	return element.Capability(el, Key)
}

// On binds fn to events of type typ on the host node and returns the
// binding id.
func (e *Events) On(typ string, fn Handler, opts ...Option) int {
	return e.add(&binding{typ: typ, fn: fn}, opts)
}

// Delegate binds fn to events of type typ whose target is, or is inside,
// a node matching selector within the render root.
func (e *Events) Delegate(typ, selector string, fn Handler, opts ...Option) int {
	return e.add(&binding{typ: typ, selector: selector, fn: fn}, opts)
}

// Off removes a binding. It reports whether the id was bound.
func (e *Events) Off(id int) bool {
	for i, b := range e.bindings {
		if b.id == id {
			e.detach(b)
			e.bindings = append(e.bindings[:i], e.bindings[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of bindings, attached or not.
func (e *Events) Len() int {
	return len(e.bindings)
}

func (e *Events) add(b *binding, opts []Option) int {
	for _, opt := range opts {
		opt(b)
	}
	e.nextID++
	b.id = e.nextID
	e.bindings = append(e.bindings, b)
	if e.mounted {
		e.attach(b)
	}
	return b.id
}

func (e *Events) mount() {
	e.mounted = true
	for _, b := range e.bindings {
		e.attach(b)
	}
}

func (e *Events) unmount() {
	e.mounted = false
	kept := e.bindings[:0]
	for _, b := range e.bindings {
		e.detach(b)
		if b.persist {
			kept = append(kept, b)
		}
	}
	for i := len(kept); i < len(e.bindings); i++ {
		e.bindings[i] = nil
	}
	e.bindings = kept
}

func (e *Events) attach(b *binding) {
	if b.remove != nil {
		return
	}
	if b.selector == "" {
		h := e.el.Host()
		b.remove = h.AddEventListener(b.typ, func(ev *host.Event) {
			b.fn(ev, h)
		})
		return
	}
	b.remove = e.el.Root().AddEventListener(b.typ, func(ev *host.Event) {
		if match := e.closest(ev.Target, b.selector); match != nil {
			b.fn(ev, match)
		}
	})
}

func (e *Events) detach(b *binding) {
	if b.remove == nil {
		return
	}
	b.remove()
	b.remove = nil
}

// closest walks from target towards the host node and returns the first
// node matching selector. The host itself is never matched.
func (e *Events) closest(target host.Element, selector string) host.Element {
	stop := e.el.Host()
	for n := target; n != nil && n != stop; n = n.Parent() {
		ok, err := n.Matches(selector)
		if err != nil {
			e.el.Logger().Warn("invalid delegation selector", "selector", selector, "error", err)
			return nil
		}
		if ok {
			return n
		}
	}
	return nil
}
