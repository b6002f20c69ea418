// Package element is the base for attribute-driven UI elements.
//
// An Element couples a Component (the render function and optional
// lifecycle hooks) with a host node, a property store and a render
// scheduler. Declared properties double as observed host attributes:
// attribute mutations are coerced and applied, and reflecting properties
// write their value back.
//
// # Lifecycle
//
// Attaching the host node to a document mounts the element:
//
//	OnPreMount → plugin PreMount → OnUpdate(all, all) → plugin Mount
//	→ first render → Mounted → OnMount
//
// Detaching it tears the element down:
//
//	cancel pending render → OnUnmount → release style → unsubscribe refs
//	→ plugin Unmount
//
// Plugin hooks run in declaration order in both directions. Each plugin's
// Unmount runs exactly once per mount cycle.
//
// # Threading
//
// An Element is not safe for concurrent use. All calls, including host
// reactions, must happen on the goroutine that drives its loop. Other
// goroutines hand work over with loop.Dispatch or loop.Call.
package element
