package components

import (
	"fmt"

	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host"
	"github.com/vango-dev/velement/pkg/plugins/fetch"
	"github.com/vango-dev/velement/pkg/plugins/visibility"
	"github.com/vango-dev/velement/pkg/prop"
	"github.com/vango-dev/velement/pkg/render"
)

// BadgeTag is the tag of the badge element.
const BadgeTag = "x-badge"

const badgeStyle = `x-badge{display:inline-block;padding:0 .4em;border-radius:.4em}
x-badge[tone=ok]{background:#d1fadf}
x-badge[tone=warn]{background:#fef0c7}`

type badge struct {
	el *element.Element
}

// NewBadge builds an x-badge: a label with a reflected tone. When src is
// set, the label is loaded from the "label" field of the JSON at src. The
// seen property turns true the first time the badge becomes visible.
func NewBadge(cfg element.Config) (*element.Element, error) {
	return NewBadgeWith(cfg)
}

// NewBadgeWith is NewBadge with fetch plugin options, such as a base URL.
func NewBadgeWith(cfg element.Config, opts ...fetch.Option) (*element.Element, error) {
	b := &badge{}
	cfg.StyleText = badgeStyle
	cfg.Properties = map[string]any{
		"label": "",
		"tone":  prop.Definition{Default: "info", Reflect: true},
		"src":   "",
		"seen":  prop.Definition{Default: false, NoRender: true},
	}
	cfg.Plugins = append([]element.Plugin{bind(&b.el)}, append(cfg.Plugins,
		fetch.New(opts...),
		visibility.New(func(el *element.Element) { el.Set("seen", true) }, nil),
	)...)
	return element.New(BadgeTag, b, cfg)
}

func (b *badge) OnUpdate(changed, _ prop.Props) {
	src, ok := changed["src"].(string)
	if !ok || src == "" {
		return
	}
	f, ok := fetch.From(b.el)
	if !ok {
		return
	}
	err := f.Get(src, func(resp *fetch.Response, err error) {
		if err != nil {
			b.el.Logger().Warn("badge source failed", "src", src, "error", err)
			return
		}
		if !resp.OK() {
			b.el.Logger().Warn("badge source failed", "src", src, "status", resp.StatusCode)
			return
		}
		if label := resp.JSON("label"); label.Exists() {
			b.el.Set("label", label.String())
		}
		if tone := resp.JSON("tone"); tone.Exists() {
			b.el.Set("tone", tone.String())
		}
	})
	if err != nil {
		b.el.Logger().Warn("invalid badge source", "src", src, "error", err)
	}
}

// Render shows the label, falling back to the child content's markup.
func (b *badge) Render(props prop.Props, child host.Element) (string, bool) {
	label := render.EscapeHTML(fmt.Sprint(props["label"]))
	if label == "" && child != nil {
		label = child.InnerHTML()
	}
	return fmt.Sprintf(`<span class="badge-label">%s</span>`, label), true
}
