package dom

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/velement/pkg/host"
)

type listener struct {
	fn      host.Listener
	removed bool
}

func (d *Document) addListener(n *html.Node, typ string, fn host.Listener) func() {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]*listener)
		d.listeners[n] = byType
	}
	l := &listener{fn: fn}
	byType[typ] = append(byType[typ], l)

	return func() {
		if l.removed {
			return
		}
		l.removed = true
		list := d.listeners[n][typ]
		for i, other := range list {
			if other == l {
				d.listeners[n][typ] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// ListenerCount returns the number of listeners for typ registered at root.
func (d *Document) ListenerCount(root host.Root, typ string) int {
	n := rootNode(root)
	if n == nil {
		return 0
	}
	return len(d.listeners[n][typ])
}

// TotalListeners returns the number of registered listeners of any type.
func (d *Document) TotalListeners() int {
	total := 0
	for _, byType := range d.listeners {
		for _, list := range byType {
			total += len(list)
		}
	}
	return total
}

func rootNode(root host.Root) *html.Node {
	switch r := root.(type) {
	case *Element:
		return r.n
	case *ShadowRoot:
		return r.n
	}
	return nil
}

func (d *Document) rootFor(n *html.Node) host.Root {
	if sr, ok := d.shadows[n]; ok {
		return sr
	}
	return d.wrap(n)
}

// dispatch runs listeners on the target and then each composed ancestor
// until propagation stops.
func (d *Document) dispatch(target *Element, ev *host.Event) {
	ev.Target = target
	for n := target.n; n != nil && n != d.root; n = d.parent(n) {
		list := d.listeners[n][ev.Type]
		if len(list) > 0 {
			ev.CurrentTarget = d.rootFor(n)
			for _, l := range append([]*listener(nil), list...) {
				if !l.removed {
					l.fn(ev)
				}
			}
		}
		if ev.Stopped() {
			break
		}
	}
	ev.CurrentTarget = nil
}
