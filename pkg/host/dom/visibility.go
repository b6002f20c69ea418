package dom

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/velement/pkg/host"
)

type visibilityObserver struct {
	fn      func(host.VisibilityEntry)
	stopped bool
}

// ObserveVisibility registers fn for visibility changes of el.
func (d *Document) ObserveVisibility(el host.Element, fn func(host.VisibilityEntry)) func() {
	e, ok := el.(*Element)
	if !ok {
		return func() {}
	}
	obs := &visibilityObserver{fn: fn}
	d.observers[e.n] = append(d.observers[e.n], obs)

	return func() {
		if obs.stopped {
			return
		}
		obs.stopped = true
		list := d.observers[e.n]
		for i, o := range list {
			if o == obs {
				d.observers[e.n] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(d.observers[e.n]) == 0 {
			delete(d.observers, e.n)
		}
	}
}

// SetVisible changes the simulated visibility of el and notifies observers
// when it changed.
func (d *Document) SetVisible(el host.Element, visible bool) {
	e, ok := el.(*Element)
	if !ok || d.visible[e.n] == visible {
		return
	}
	d.visible[e.n] = visible
	d.notifyVisibility(e.n, host.VisibilityEntry{Target: e, Visible: visible})
}

// VisibilityObservers returns the number of active observers of el.
func (d *Document) VisibilityObservers(el host.Element) int {
	e, ok := el.(*Element)
	if !ok {
		return 0
	}
	return len(d.observers[e.n])
}

func (d *Document) notifyVisibility(n *html.Node, entry host.VisibilityEntry) {
	for _, obs := range append([]*visibilityObserver(nil), d.observers[n]...) {
		if !obs.stopped {
			obs.fn(entry)
		}
	}
}
