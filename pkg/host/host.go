// Package host defines the document tree an element renders into.
//
// The element core never touches a concrete DOM. It reads and writes
// attributes, replaces the markup of a Root, queries it with CSS selectors,
// and receives custom element reactions through Observe. Package dom
// provides an in-memory implementation.
package host

// Reactions are the custom element callbacks a host node delivers.
type Reactions struct {
	// Connected runs after the node joins the document tree.
	Connected func()

	// Disconnected runs after the node leaves the document tree.
	Disconnected func()

	// AttributeChanged runs after an observed attribute is set or removed.
	// present is false for removals.
	AttributeChanged func(name, old, value string, present bool)
}

// Listener handles a dispatched event.
type Listener func(ev *Event)

// Event is a host event travelling from its target up through ancestors.
type Event struct {
	Type   string
	Detail any

	// Target is the element the event was dispatched at.
	Target Element

	// CurrentTarget is the root whose listener is running.
	CurrentTarget Root

	stopped          bool
	defaultPrevented bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string, detail any) *Event {
	return &Event{Type: typ, Detail: detail}
}

// StopPropagation prevents the event reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool { return e.stopped }

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StyleHandle is an installed style sheet. Release removes it; further
// calls are no-ops.
type StyleHandle interface {
	Release()
}

// Root is a subtree an element renders into: either the element itself or
// its shadow root.
type Root interface {
	// SetInnerHTML replaces every child with the parsed markup.
	SetInnerHTML(markup string) error
	InnerHTML() string

	// QueryAll returns the descendants matching a CSS selector in tree order.
	QueryAll(selector string) ([]Element, error)

	AppendChild(child Element)
	AddEventListener(typ string, fn Listener) (remove func())

	// AdoptStyle installs a style sheet scoped to this root.
	AdoptStyle(css string) StyleHandle

	// Host returns the element owning this root.
	Host() Element
}

// Element is a host element node.
type Element interface {
	Root

	TagName() string
	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)

	// Parent returns the parent element, crossing out of shadow roots to
	// their host, or nil.
	Parent() Element
	Matches(selector string) (bool, error)
	Contains(other Element) bool
	IsConnected() bool
	Remove()
	OuterHTML() string

	// AttachShadow creates (or returns) the element's encapsulated root.
	AttachShadow() Root
	ShadowRoot() Root

	// Observe registers custom element reactions. Attribute changes are
	// reported only for the observed names.
	Observe(r Reactions, observed []string)

	DispatchEvent(ev *Event)
	Document() Document
}

// VisibilityEntry reports a change of an element's visibility.
type VisibilityEntry struct {
	Target  Element
	Visible bool
}

// Document is the host document.
type Document interface {
	CreateElement(tag string) Element
	Body() Element

	// InstallStyle adds a global style sheet to the document head.
	InstallStyle(css string) StyleHandle

	// ObserveVisibility reports visibility changes of el until stop is
	// called.
	ObserveVisibility(el Element, fn func(VisibilityEntry)) (stop func())
}
