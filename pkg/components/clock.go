package components

import (
	"fmt"
	"time"

	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host"
	"github.com/vango-dev/velement/pkg/plugins/timers"
	"github.com/vango-dev/velement/pkg/prop"
	"github.com/vango-dev/velement/pkg/render"
)

// ClockTag is the tag of the clock element.
const ClockTag = "x-clock"

type clock struct {
	el *element.Element
}

// NewClock builds an x-clock. It shows the loop time, refreshed every
// interval seconds, and counts chimes on an optional cron schedule.
func NewClock(cfg element.Config) (*element.Element, error) {
	c := &clock{}
	cfg.Properties = map[string]any{
		"now":      "",
		"format":   "15:04:05",
		"interval": 1.0,
		"chime":    "",
		"chimes":   0.0,
	}
	cfg.Plugins = append([]element.Plugin{bind(&c.el)}, append(cfg.Plugins, timers.New())...)
	return element.New(ClockTag, c, cfg)
}

func (c *clock) OnPreMount() {
	c.tick()
}

func (c *clock) OnUpdate(changed, _ prop.Props) {
	tm, ok := timers.From(c.el)
	if !ok {
		return
	}
	if v, ok := changed["interval"]; ok {
		d := time.Duration(number(v) * float64(time.Second))
		if d <= 0 {
			tm.Cancel("tick")
		} else {
			tm.Every("tick", d, c.tick)
		}
	}
	if v, ok := changed["chime"]; ok {
		spec, _ := v.(string)
		if spec == "" {
			tm.Cancel("chime")
			return
		}
		_, err := tm.Cron("chime", spec, func() {
			c.el.SetFunc("chimes", func(prev any) any { return number(prev) + 1 })
		})
		if err != nil {
			c.el.Logger().Warn("invalid chime schedule", "spec", spec, "error", err)
		}
	}
}

func (c *clock) tick() {
	layout, _ := c.el.Get("format").(string)
	if layout == "" {
		layout = time.Kitchen
	}
	c.el.Set("now", c.el.Loop().Now().UTC().Format(layout))
}

func (c *clock) Render(props prop.Props, _ host.Element) (string, bool) {
	return fmt.Sprintf(`<time>%s</time><small>%s chimes</small>`,
		render.EscapeHTML(fmt.Sprint(props["now"])),
		formatNumber(props["chimes"]),
	), true
}
