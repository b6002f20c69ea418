// Package vtest provides testing helpers for elements.
//
// A Harness owns an in-memory document and a loop driven by a manual clock,
// so timers only fire when the test advances time.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New(t)
//	    el, err := components.NewCounter(h.Config(h.Host("x-counter", "count", "5")))
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    h.Mount(el)
//	    h.Click(el, `[data-action="inc"]`)
//	    vtest.ExpectContains(t, el, "<output>6</output>")
//	}
//
// # Time
//
// Advance moves the clock and fires due timers in order:
//
//	h.Advance(3 * time.Second)
//
// # Render Assertions
//
//	vtest.ExpectContains(t, el, "Welcome")
//	vtest.ExpectNotContains(t, el, "Error")
//	vtest.ExpectElement(t, el, "button")
//	vtest.ExpectAttribute(t, el, "tone", "ok")
package vtest
