package velement

import (
	"fmt"
	"testing"

	"github.com/vango-dev/velement/pkg/host"
)

func TestNewThroughRootPackage(t *testing.T) {
	doc := NewDocument()
	lp := NewLoop()

	hello := RenderFunc(func(p Props, _ host.Element) (string, bool) {
		return fmt.Sprintf("<p>hello %v</p>", p["name"]), true
	})
	el, err := New("x-hello", hello, Config{
		Document:    doc,
		Loop:        lp,
		BatchRender: Unbatched(),
		Properties: map[string]any{
			"name": Definition{Type: String, Default: "world", Reflect: true},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if el.State() != StateUnattached {
		t.Errorf("State = %v", el.State())
	}

	lp.Do(func() { doc.Body().AppendChild(el.Host()) })
	if el.State() != StateMounted {
		t.Errorf("State = %v", el.State())
	}
	if got := el.Root().InnerHTML(); got != "<p>hello world</p>" {
		t.Errorf("markup = %q", got)
	}

	lp.Do(func() { el.Set("name", "velement", NoReflect()) })
	if got := el.Root().InnerHTML(); got != "<p>hello velement</p>" {
		t.Errorf("markup = %q", got)
	}
	if _, ok := el.Host().Attribute("name"); ok {
		t.Error("NoReflect write reflected")
	}
}

func TestRefSharedAcrossElements(t *testing.T) {
	doc := NewDocument()
	lp := NewLoop()
	shared := NewRef(1.0)

	var els []*Element
	for i := 0; i < 2; i++ {
		el, err := New("x-shared", RenderFunc(func(p Props, _ host.Element) (string, bool) {
			return fmt.Sprint(p["n"]), true
		}), Config{Document: doc, Loop: lp, Properties: map[string]any{"n": shared}})
		if err != nil {
			t.Fatal(err)
		}
		els = append(els, el)
	}
	lp.Do(func() {
		for _, el := range els {
			doc.Body().AppendChild(el.Host())
		}
	})
	lp.Do(func() { els[0].Set("n", 5.0) })

	if got := els[1].Get("n"); got != 5.0 {
		t.Errorf("second element n = %v, want 5", got)
	}
}
