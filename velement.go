// Package velement provides the public API for attribute-driven elements.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/velement"
//
// Usage:
//
//	el, err := velement.New("x-hello", velement.RenderFunc(render), velement.Config{
//	    Document:   doc,
//	    Properties: velement.Props{"name": "world"},
//	})
package velement

import (
	"github.com/vango-dev/velement/pkg/coerce"
	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host"
	"github.com/vango-dev/velement/pkg/host/dom"
	"github.com/vango-dev/velement/pkg/loop"
	"github.com/vango-dev/velement/pkg/prop"
)

// =============================================================================
// Elements
// =============================================================================

// Element is a host element bound to a component, a property store and a
// render scheduler.
type Element = element.Element

// Config configures New.
type Config = element.Config

// Component supplies an element's markup.
type Component = element.Component

// RenderFunc adapts a function to Component.
type RenderFunc = element.RenderFunc

// State is an element's lifecycle state.
type State = element.State

const (
	StateUnattached = element.StateUnattached
	StatePreMount   = element.StatePreMount
	StateMounted    = element.StateMounted
	StateUnmounted  = element.StateUnmounted
)

// New creates an element. See element.New.
func New(tag string, comp Component, cfg Config) (*Element, error) {
	return element.New(tag, comp, cfg)
}

// Unbatched returns the Config.BatchRender value that renders
// synchronously on every change.
func Unbatched() *bool {
	return element.Unbatched()
}

// NoReflect suppresses attribute reflection for one write.
func NoReflect() element.SetOption {
	return element.NoReflect()
}

// =============================================================================
// Plugins
// =============================================================================

// Plugin adds behavior to an element.
type Plugin = element.Plugin

// Hooks are a plugin's lifecycle callbacks.
type Hooks = element.Hooks

// =============================================================================
// Properties
// =============================================================================

// Props is a snapshot of property values.
type Props = prop.Props

// Definition declares one property.
type Definition = prop.Definition

// Ref is a shared value several elements can bind a property to.
type Ref = prop.Ref

// NewRef creates a Ref holding initial.
func NewRef(initial any) *Ref {
	return prop.NewRef(initial)
}

// Type is a property's attribute serialization type.
type Type = coerce.Type

const (
	Untyped = coerce.Untyped
	String  = coerce.String
	Number  = coerce.Number
	Boolean = coerce.Boolean
	Array   = coerce.Array
	Object  = coerce.Object
	Null    = coerce.Null
)

// =============================================================================
// Hosting
// =============================================================================

// Event is a host event.
type Event = host.Event

// NewDocument creates an in-memory document to host elements in.
func NewDocument() *dom.Document {
	return dom.NewDocument()
}

// NewLoop creates the loop elements run on.
func NewLoop(opts ...loop.Option) *loop.Loop {
	return loop.New(opts...)
}
