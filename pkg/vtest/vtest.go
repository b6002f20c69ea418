package vtest

import (
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host"
	"github.com/vango-dev/velement/pkg/host/dom"
	"github.com/vango-dev/velement/pkg/loop"
)

// Epoch is the time a Harness clock starts at unless WithStart is given.
var Epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// Harness is a document plus a manually clocked loop.
type Harness struct {
	tb    testing.TB
	Doc   *dom.Document
	Loop  *loop.Loop
	Clock *loop.ManualClock
}

type options struct {
	start time.Time
	loop  []loop.Option
}

// Option configures a Harness.
type Option func(*options)

// WithStart sets the initial clock time.
func WithStart(t time.Time) Option {
	return func(o *options) {
		o.start = t
	}
}

// WithLoopOptions passes extra options to the harness loop.
func WithLoopOptions(opts ...loop.Option) Option {
	return func(o *options) {
		o.loop = append(o.loop, opts...)
	}
}

// New creates a Harness.
func New(tb testing.TB, opts ...Option) *Harness {
	o := options{start: Epoch}
	for _, opt := range opts {
		opt(&o)
	}
	clock := loop.NewManualClock(o.start)
	return &Harness{
		tb:    tb,
		Doc:   dom.NewDocument(),
		Loop:  loop.New(append(o.loop, loop.WithClock(clock))...),
		Clock: clock,
	}
}

// Host creates a detached host element. attrs are name, value pairs.
func (h *Harness) Host(tag string, attrs ...string) host.Element {
	el := h.Doc.CreateElement(tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		el.SetAttribute(attrs[i], attrs[i+1])
	}
	return el
}

// Config returns an element config bound to the harness loop and the given
// host, or to the harness document when host is nil.
func (h *Harness) Config(hostEl host.Element) element.Config {
	cfg := element.Config{Loop: h.Loop}
	if hostEl != nil {
		cfg.Host = hostEl
	} else {
		cfg.Document = h.Doc
	}
	return cfg
}

// Do runs fn as a loop task and flushes its microtasks.
func (h *Harness) Do(fn func()) {
	h.Loop.Do(fn)
}

// Mount appends el's host to the body.
func (h *Harness) Mount(el *element.Element) {
	h.Loop.Do(func() { h.Doc.Body().AppendChild(el.Host()) })
}

// Unmount removes el's host from the document.
func (h *Harness) Unmount(el *element.Element) {
	h.Loop.Do(func() { el.Host().Remove() })
}

// Advance moves the clock forward by d, firing due timers.
func (h *Harness) Advance(d time.Duration) {
	h.tb.Helper()
	if err := h.Loop.Advance(d); err != nil {
		h.tb.Fatalf("Advance: %v", err)
	}
}

// Dispatch fires an event of type typ at the first node in el's render
// root matching selector. It fails the test when nothing matches.
func (h *Harness) Dispatch(el *element.Element, selector, typ string) {
	h.tb.Helper()
	target := el.Query(selector).First()
	if target == nil {
		h.tb.Fatalf("no node matches %q in:\n%s", selector, truncate(Markup(el), 500))
		return
	}
	h.Loop.Do(func() { target.DispatchEvent(host.NewEvent(typ, nil)) })
}

// Click dispatches a click at selector.
func (h *Harness) Click(el *element.Element, selector string) {
	h.tb.Helper()
	h.Dispatch(el, selector, "click")
}

// Markup returns what el rendered: its shadow root's content, or its host's
// content for light-DOM elements.
func Markup(el *element.Element) string {
	return el.Root().InnerHTML()
}

// ExpectContains asserts that el's markup contains expected.
func ExpectContains(t testing.TB, el *element.Element, expected string) {
	t.Helper()
	html := Markup(el)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that el's markup does not contain unexpected.
func ExpectNotContains(t testing.TB, el *element.Element, unexpected string) {
	t.Helper()
	html := Markup(el)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that el's markup has an element matching selector.
func ExpectElement(t testing.TB, el *element.Element, selector string) {
	t.Helper()
	if el.Query(selector).None() {
		t.Errorf("expected rendered output to contain %s, got:\n%s", selector, truncate(Markup(el), 500))
	}
}

// ExpectAttribute asserts a host attribute value.
func ExpectAttribute(t testing.TB, el *element.Element, attr, value string) {
	t.Helper()
	got, ok := el.Host().Attribute(attr)
	if !ok {
		t.Errorf("expected attribute %s=%q, attribute absent", attr, value)
		return
	}
	if got != value {
		t.Errorf("attribute %s = %q, want %q", attr, got, value)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
