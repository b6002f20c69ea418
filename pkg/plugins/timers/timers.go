// Package timers schedules named timeouts, intervals, animation frames and
// cron jobs on an element's loop.
//
// Every timer is cancelled at unmount. Timers requested before mount start
// at mount. Reusing a name cancels the timer previously registered under
// it.
package timers

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/loop"
)

// Key is the capability namespace of the timers plugin.
var Key = element.NewKey[*Timers]("timers")

type handle struct {
	name  string
	arm   func(h *handle)
	timer *loop.Timer
}

func (h *handle) stop() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

// Timers manages the named timers of one element.
type Timers struct {
	el      *element.Element
	handles map[string]*handle
	order   []string
	anon    int
	mounted bool
}

// New returns the timers plugin.
func New() element.Plugin {
	return func(el *element.Element, _ element.Config) element.Hooks {
		t := &Timers{el: el, handles: make(map[string]*handle)}
		if err := element.Provide(el, Key, t); err != nil {
			el.Logger().Error("timers plugin not installed", "error", err)
			return element.Hooks{}
		}
		return element.Hooks{
			Mount:   t.mount,
			Unmount: t.unmount,
		}
	}
}

// From returns the timers capability of el.
func From(el *element.Element) (*Timers, bool) {
	return element.Capability(el, Key)
}

// After runs fn once after d. An empty name registers an anonymous timer.
// It returns the timer's name.
func (t *Timers) After(name string, d time.Duration, fn func()) string {
	return t.add(name, func(h *handle) {
		h.timer = t.loop().AfterFunc(d, func() {
			t.done(h)
			fn()
		})
	})
}

// MinInterval is the shortest period Every accepts. Shorter periods are
// raised to it.
const MinInterval = loop.DefaultFrameInterval

// Every runs fn every d until cancelled.
func (t *Timers) Every(name string, d time.Duration, fn func()) string {
	if d < MinInterval {
		d = MinInterval
	}
	return t.add(name, func(h *handle) {
		var tick func()
		tick = func() {
			h.timer = t.loop().AfterFunc(d, tick)
			fn()
		}
		h.timer = t.loop().AfterFunc(d, tick)
	})
}

// Frame runs fn once on the next animation frame.
func (t *Timers) Frame(name string, fn func(frame time.Time)) string {
	return t.add(name, func(h *handle) {
		h.timer = t.loop().RequestFrame(func(frame time.Time) {
			t.done(h)
			fn(frame)
		})
	})
}

// Cron runs fn on a standard five-field cron schedule, such as
// "*/5 * * * *" or "@hourly".
func (t *Timers) Cron(name, spec string, fn func()) (string, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return "", fmt.Errorf("timers: parse cron spec %q: %w", spec, err)
	}
	return t.add(name, func(h *handle) {
		var arm func()
		arm = func() {
			now := t.loop().Now()
			next := sched.Next(now)
			if next.IsZero() {
				t.done(h)
				return
			}
			h.timer = t.loop().AfterFunc(next.Sub(now), func() {
				arm()
				fn()
			})
		}
		arm()
	}), nil
}

// Cancel stops the named timer. It reports whether it was registered.
func (t *Timers) Cancel(name string) bool {
	h, ok := t.handles[name]
	if !ok {
		return false
	}
	h.stop()
	t.done(h)
	return true
}

// Active reports whether a timer is registered under name.
func (t *Timers) Active(name string) bool {
	_, ok := t.handles[name]
	return ok
}

// Names returns the registered timer names in registration order.
func (t *Timers) Names() []string {
	return append([]string(nil), t.order...)
}

func (t *Timers) loop() *loop.Loop {
	return t.el.Loop()
}

func (t *Timers) add(name string, arm func(h *handle)) string {
	if name == "" {
		t.anon++
		name = fmt.Sprintf("#%d", t.anon)
	}
	t.Cancel(name)

	h := &handle{name: name, arm: arm}
	t.handles[name] = h
	t.order = append(t.order, name)
	if t.mounted {
		h.arm(h)
	}
	return name
}

// done forgets h unless its name was reused since.
func (t *Timers) done(h *handle) {
	if t.handles[h.name] != h {
		return
	}
	delete(t.handles, h.name)
	for i, n := range t.order {
		if n == h.name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *Timers) mount() {
	t.mounted = true
	for _, name := range append([]string(nil), t.order...) {
		if h, ok := t.handles[name]; ok {
			h.arm(h)
		}
	}
}

func (t *Timers) unmount() {
	t.mounted = false
	for _, h := range t.handles {
		h.stop()
	}
	t.handles = make(map[string]*handle)
	t.order = nil
}
