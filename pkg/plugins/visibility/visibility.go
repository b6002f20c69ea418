// Package visibility reports when an element's host node enters or leaves
// the viewport. The host document is observed from mount to unmount.
package visibility

import (
	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host"
)

// Key is the capability namespace of the visibility plugin.
var Key = element.NewKey[*Visibility]("visibility")

// Visibility tracks the visibility of one element.
type Visibility struct {
	el      *element.Element
	onEnter func(el *element.Element)
	onExit  func(el *element.Element)

	visible bool
	stop    func()
}

// New returns the visibility plugin. Either callback may be nil.
func New(onEnter, onExit func(el *element.Element)) element.Plugin {
	return func(el *element.Element, _ element.Config) element.Hooks {
		v := &Visibility{el: el, onEnter: onEnter, onExit: onExit}
		if err := element.Provide(el, Key, v); err != nil {
			el.Logger().Error("visibility plugin not installed", "error", err)
			return element.Hooks{}
		}
		return element.Hooks{
			Mount:   v.mount,
			Unmount: v.unmount,
		}
	}
}

// From returns the visibility capability of el.
func From(el *element.Element) (*Visibility, bool) {
	return element.Capability(el, Key)
}

// Visible reports the last observed visibility.
func (v *Visibility) Visible() bool {
	return v.visible
}

func (v *Visibility) mount() {
	h := v.el.Host()
	v.stop = h.Document().ObserveVisibility(h, v.observe)
}

func (v *Visibility) unmount() {
	if v.stop != nil {
		v.stop()
		v.stop = nil
	}
	v.visible = false
}

func (v *Visibility) observe(entry host.VisibilityEntry) {
	if entry.Visible == v.visible {
		return
	}
	v.visible = entry.Visible
	switch {
	case entry.Visible && v.onEnter != nil:
		v.onEnter(v.el)
	case !entry.Visible && v.onExit != nil:
		v.onExit(v.el)
	}
}
