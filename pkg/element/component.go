package element

import (
	"github.com/vango-dev/velement/pkg/host"
	"github.com/vango-dev/velement/pkg/prop"
)

// Component supplies an element's markup. Render returns false to leave
// the current content untouched, for components that manage their
// subtree imperatively.
type Component interface {
	Render(props prop.Props, child host.Element) (string, bool)
}

// PreMounter runs first when the element attaches.
type PreMounter interface {
	OnPreMount()
}

// Mounter runs after the first render.
type Mounter interface {
	OnMount()
}

// Unmounter runs first when the element detaches.
type Unmounter interface {
	OnUnmount()
}

// Updater is notified of every property change, one key at a time, and
// once with the full property set on each mount.
type Updater interface {
	OnUpdate(changed, all prop.Props)
}

// RenderFunc adapts a function to Component.
type RenderFunc func(props prop.Props, child host.Element) (string, bool)

// Render calls f.
func (f RenderFunc) Render(props prop.Props, child host.Element) (string, bool) {
	return f(props, child)
}
