package components

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/velement/internal/errors"
	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host/dom"
	"github.com/vango-dev/velement/pkg/loop"
	"github.com/vango-dev/velement/pkg/vtest"
)

func setup(t *testing.T, tag string, attrs ...string) (*vtest.Harness, *element.Element) {
	t.Helper()
	h := vtest.New(t)
	el, err := Default().Build(tag, h.Config(h.Host(tag, attrs...)))
	if err != nil {
		t.Fatalf("Build(%s): %v", tag, err)
	}
	h.Mount(el)
	return h, el
}

func TestCounter(t *testing.T) {
	h, el := setup(t, CounterTag, "count", "5", "step", "2")

	vtest.ExpectContains(t, el, "<output>5</output>")
	h.Click(el, `[data-action="inc"]`)
	h.Click(el, `[data-action="inc"]`)
	h.Click(el, `[data-action="dec"]`)

	if got := el.Get("count"); got != 7.0 {
		t.Errorf("count = %v, want 7", got)
	}
	vtest.ExpectAttribute(t, el, "count", "7")
	vtest.ExpectContains(t, el, "<output>7</output>")

	h.Do(func() { el.Host().SetAttribute("count", "40") })
	vtest.ExpectContains(t, el, "<output>40</output>")

	h.Click(el, `[data-action="reset"]`)
	if el.Get("count") != 0.0 {
		t.Errorf("count after reset = %v", el.Get("count"))
	}
	vtest.ExpectElement(t, el, `button[data-action="reset"]`)

	if !strings.Contains(h.Doc.HTML(), `<template shadowrootmode="open"><style>`) {
		t.Error("shadow style missing from document HTML")
	}
}

func TestCounterRebindsAfterRemount(t *testing.T) {
	h, el := setup(t, CounterTag)
	h.Do(el.Destroy)
	h.Mount(el)

	h.Click(el, `[data-action="inc"]`)
	if el.Get("count") != 1.0 {
		t.Errorf("count = %v, want 1 (one binding)", el.Get("count"))
	}
}

func TestClock(t *testing.T) {
	h, el := setup(t, ClockTag, "chime", "*/30 * * * *")

	if got := el.Get("now"); got != "09:00:00" {
		t.Errorf("now = %v", got)
	}
	h.Advance(3 * time.Second)
	if got := el.Get("now"); got != "09:00:03" {
		t.Errorf("now = %v", got)
	}

	h.Advance(time.Hour)
	if got := el.Get("chimes"); got != 2.0 {
		t.Errorf("chimes = %v, want 2", got)
	}
	vtest.ExpectContains(t, el, "<time>10:00:03</time>")
	vtest.ExpectNotContains(t, el, "<time>09:")

	h.Unmount(el)
	if h.Loop.Pending() != 0 {
		t.Errorf("timers left after unmount: %d", h.Loop.Pending())
	}
}

func TestBadgeFetchesLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"label":"v1.2","tone":"ok"}`))
	}))
	defer srv.Close()

	doc := dom.NewDocument()
	lp := loop.New()
	el, err := NewBadgeWith(element.Config{Document: doc, Loop: lp})
	if err != nil {
		t.Fatal(err)
	}
	lp.Do(func() {
		doc.Body().AppendChild(el.Host())
		el.Set("src", srv.URL+"/version")
	})

	deadline := time.Now().Add(5 * time.Second)
	for el.Get("label") != "v1.2" {
		if time.Now().After(deadline) {
			t.Fatal("label not loaded")
		}
		lp.RunPending()
		time.Sleep(time.Millisecond)
	}
	if got, _ := el.Host().Attribute("tone"); got != "ok" {
		t.Errorf("tone attribute = %q", got)
	}
	if got := el.Root().InnerHTML(); got != `<span class="badge-label">v1.2</span>` {
		t.Errorf("markup = %s", got)
	}
	if len(doc.Styles()) != 1 {
		t.Errorf("styles = %d", len(doc.Styles()))
	}

	doc.SetVisible(el.Host(), true)
	if el.Get("seen") != true {
		t.Error("seen not set")
	}
}

func TestRegistry(t *testing.T) {
	r := Default()
	if got := strings.Join(r.Tags(), ","); got != "x-badge,x-clock,x-counter" {
		t.Errorf("Tags = %s", got)
	}
	_, err := r.Build("x-missing", element.Config{Document: dom.NewDocument()})
	var ce *errors.CodedError
	if !stderrors.As(err, &ce) || ce.Code != "E203" {
		t.Errorf("err = %v, want E203", err)
	}
}
