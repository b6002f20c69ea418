package visibility

import (
	"strings"
	"testing"

	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host"
	"github.com/vango-dev/velement/pkg/host/dom"
	"github.com/vango-dev/velement/pkg/loop"
	"github.com/vango-dev/velement/pkg/prop"
)

func TestEnterExit(t *testing.T) {
	doc := dom.NewDocument()
	var log []string
	el, err := element.New("x-lazy", element.RenderFunc(func(prop.Props, host.Element) (string, bool) {
		return "", false
	}), element.Config{
		Document: doc,
		Loop:     loop.New(),
		Plugins: []element.Plugin{New(
			func(*element.Element) { log = append(log, "enter") },
			func(*element.Element) { log = append(log, "exit") },
		)},
	})
	if err != nil {
		t.Fatal(err)
	}
	v, ok := From(el)
	if !ok {
		t.Fatal("visibility capability missing")
	}

	doc.SetVisible(el.Host(), true)
	if len(log) != 0 {
		t.Fatal("observed before mount")
	}
	doc.SetVisible(el.Host(), false)

	doc.Body().AppendChild(el.Host())
	if doc.VisibilityObservers(el.Host()) != 1 {
		t.Fatal("not observing after mount")
	}
	doc.SetVisible(el.Host(), true)
	if !v.Visible() {
		t.Error("Visible = false")
	}
	doc.SetVisible(el.Host(), false)

	el.Destroy()
	if doc.VisibilityObservers(el.Host()) != 0 {
		t.Error("observer leaked after unmount")
	}
	doc.SetVisible(el.Host(), true)

	if got := strings.Join(log, ","); got != "enter,exit" {
		t.Errorf("log = %s", got)
	}
}
