package components

import (
	"fmt"

	"github.com/vango-dev/velement/pkg/coerce"
	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host"
	"github.com/vango-dev/velement/pkg/plugins/events"
	"github.com/vango-dev/velement/pkg/prop"
	"github.com/vango-dev/velement/pkg/render"
)

// CounterTag is the tag of the counter element.
const CounterTag = "x-counter"

const counterStyle = `:host{display:inline-flex;gap:.5rem;align-items:center}
button{min-width:2rem}`

type counter struct{}

// NewCounter builds an x-counter: a reflected count with increment and
// decrement buttons, rendered into a shadow root.
func NewCounter(cfg element.Config) (*element.Element, error) {
	c := &counter{}
	cfg.Shadow = true
	cfg.StyleText = counterStyle
	cfg.Properties = map[string]any{
		"count": prop.Definition{Type: coerce.Number, Default: 0.0, Reflect: true},
		"step":  1.0,
		"label": "Count",
	}
	cfg.Plugins = append(cfg.Plugins, events.New(), c.plugin)

	return element.New(CounterTag, c, cfg)
}

func (c *counter) plugin(el *element.Element, _ element.Config) element.Hooks {
	return element.Hooks{PreMount: func() {
		ev, ok := events.From(el)
		if !ok {
			return
		}
		ev.Delegate("click", "button[data-action]", func(_ *host.Event, btn host.Element) {
			action, _ := btn.Attribute("data-action")
			step, _ := coerce.ToFloat(el.Get("step"))
			switch action {
			case "inc":
				el.SetFunc("count", func(prev any) any { return number(prev) + step })
			case "dec":
				el.SetFunc("count", func(prev any) any { return number(prev) - step })
			case "reset":
				el.Set("count", 0.0)
			}
		})
	}}
}

func (c *counter) Render(props prop.Props, _ host.Element) (string, bool) {
	return fmt.Sprintf(
		`<span class="label">%s</span><button data-action="dec">-</button><output>%s</output><button data-action="inc">+</button><button data-action="reset">reset</button>`,
		render.EscapeHTML(fmt.Sprint(props["label"])),
		formatNumber(props["count"]),
	), true
}

func number(v any) float64 {
	f, _ := coerce.ToFloat(v)
	return f
}

func formatNumber(v any) string {
	text, _, err := coerce.Serialize(v, coerce.Number)
	if err != nil {
		return "NaN"
	}
	return text
}
