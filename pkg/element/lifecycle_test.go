package element

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/velement/pkg/host/dom"
	"github.com/vango-dev/velement/pkg/loop"
	"github.com/vango-dev/velement/pkg/prop"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// tracePlugin appends its hook calls to a shared log.
func tracePlugin(name string, log *[]string, unmounts *int) Plugin {
	return func(el *Element, cfg Config) Hooks {
		return Hooks{
			PreMount: func() { *log = append(*log, name+".premount") },
			Mount:    func() { *log = append(*log, name+".mount") },
			Unmount: func() {
				*log = append(*log, name+".unmount")
				*unmounts++
			},
		}
	}
}

func TestLifecycleOrdering(t *testing.T) {
	var pluginLog []string
	var unmountsA, unmountsB int
	f := newFixture(t, Config{
		Properties: map[string]any{"count": 0},
		Plugins: []Plugin{
			tracePlugin("a", &pluginLog, &unmountsA),
			tracePlugin("b", &pluginLog, &unmountsB),
		},
	})

	// Merge plugin entries into the component log so order is global.
	f.el.hooks = wrapHooks(f.el.hooks, &f.comp.log, &pluginLog)

	f.mount()
	want := "premount,a.premount,b.premount,update,a.mount,b.mount,render,mount"
	if got := strings.Join(f.comp.log, ","); got != want {
		t.Errorf("mount order:\n got %s\nwant %s", got, want)
	}
	if f.el.State() != StateMounted {
		t.Errorf("State = %v", f.el.State())
	}

	f.comp.reset()
	f.unmount()
	want = "unmount,a.unmount,b.unmount"
	if got := strings.Join(f.comp.log, ","); got != want {
		t.Errorf("unmount order:\n got %s\nwant %s", got, want)
	}
	if f.el.State() != StateUnmounted {
		t.Errorf("State = %v", f.el.State())
	}
}

// wrapHooks mirrors each plugin log entry into log as it happens.
func wrapHooks(hooks []Hooks, log *[]string, pluginLog *[]string) []Hooks {
	out := make([]Hooks, len(hooks))
	for i, h := range hooks {
		h := h
		mirror := func(fn func()) func() {
			return func() {
				n := len(*pluginLog)
				fn()
				*log = append(*log, (*pluginLog)[n:]...)
			}
		}
		out[i] = Hooks{PreMount: mirror(h.PreMount), Mount: mirror(h.Mount), Unmount: mirror(h.Unmount)}
	}
	return out
}

func TestPluginUnmountExactlyOncePerCycle(t *testing.T) {
	var log []string
	var unmountsA, unmountsB int
	f := newFixture(t, Config{
		Properties: map[string]any{"count": 0},
		Plugins: []Plugin{
			tracePlugin("a", &log, &unmountsA),
			tracePlugin("b", &log, &unmountsB),
		},
	})

	const cycles = 5
	other := f.doc.CreateElement("section")
	f.doc.Body().AppendChild(other)
	for i := 0; i < cycles; i++ {
		f.mount()
		// Moving between parents fires disconnect then connect.
		f.loop.Do(func() { other.AppendChild(f.el.Host()) })
		f.unmount()
		f.unmount()
	}

	if unmountsA != 2*cycles || unmountsB != 2*cycles {
		t.Errorf("unmounts = %d/%d, want %d", unmountsA, unmountsB, 2*cycles)
	}
	mounts := strings.Count(strings.Join(log, ","), "a.mount")
	if mounts != 2*cycles {
		t.Errorf("mounts = %d, want %d", mounts, 2*cycles)
	}
}

func TestDuplicateReactionsIgnored(t *testing.T) {
	f := newFixture(t, Config{})
	f.mount()
	f.el.connected()
	f.comp.reset()

	f.unmount()
	f.el.disconnected()
	if got := strings.Join(f.comp.log, ","); got != "unmount" {
		t.Errorf("log = %s", got)
	}
}

func TestNoRenderBeforeMount(t *testing.T) {
	f := newFixture(t, Config{Properties: map[string]any{"count": 0}})
	f.loop.Do(func() { f.el.Set("count", 1) })
	if len(f.comp.renders) != 0 {
		t.Errorf("rendered while unattached: %d", len(f.comp.renders))
	}
	f.el.Update()
	if len(f.comp.renders) != 0 {
		t.Error("Update rendered while unattached")
	}
}

func TestPendingRenderCancelledByUnmount(t *testing.T) {
	f := newFixture(t, Config{Properties: map[string]any{"count": 0}})
	f.mount()
	f.comp.reset()

	f.loop.Do(func() {
		f.el.Set("count", 1)
		f.el.Host().Remove()
	})
	if len(f.comp.renders) != 0 {
		t.Errorf("render ran after teardown: %d", len(f.comp.renders))
	}
}

func TestWritesDuringMountHooksDoNotRenderEarly(t *testing.T) {
	f := newFixture(t, Config{
		Properties: map[string]any{"count": 0},
		Plugins: []Plugin{func(el *Element, _ Config) Hooks {
			return Hooks{
				PreMount: func() { el.Set("count", 1) },
				Mount:    func() { el.Set("count", 2) },
			}
		}},
	})
	f.mount()
	if len(f.comp.renders) != 1 {
		t.Fatalf("renders = %d, want 1", len(f.comp.renders))
	}
	if got := f.comp.renders[0]["count"]; got != 2 {
		t.Errorf("first render saw count = %v, want 2", got)
	}
}

func TestConnectedHostMountsImmediately(t *testing.T) {
	doc := dom.NewDocument()
	h := doc.CreateElement("x-recorder")
	doc.Body().AppendChild(h)

	comp := &recorder{}
	el, err := New("ignored", comp, Config{Host: h, Loop: loop.New()})
	if err != nil {
		t.Fatal(err)
	}
	if el.Tag() != "x-recorder" {
		t.Errorf("Tag = %q", el.Tag())
	}
	if !el.Mounted() {
		t.Error("element should be mounted")
	}
}

func TestDestroy(t *testing.T) {
	f := newFixture(t, Config{})
	f.mount()
	f.loop.Do(f.el.Destroy)
	if f.el.Host().IsConnected() {
		t.Error("host still connected")
	}
	if f.el.State() != StateUnmounted {
		t.Errorf("State = %v", f.el.State())
	}
	f.el.Destroy()

	f.mount()
	if f.el.State() != StateMounted {
		t.Errorf("reattach after Destroy: State = %v", f.el.State())
	}
}

func TestUpdateHookSeesFullPropsOnMount(t *testing.T) {
	f := newFixture(t, Config{Properties: map[string]any{"a": 1, "b": "x"}})
	f.mount()
	if len(f.comp.updates) != 1 || len(f.comp.updates[0]) != 2 {
		t.Errorf("updates = %v", f.comp.updates)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateUnattached, "unattached"},
		{StatePreMount, "premount"},
		{StateMounted, "mounted"},
		{StateUnmounted, "unmounted"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

type counterAPI struct{ n int }

var counterKey = NewKey[*counterAPI]("counter")

func TestCapabilityRegistry(t *testing.T) {
	provider := func(el *Element, _ Config) Hooks {
		if err := Provide(el, counterKey, &counterAPI{n: 1}); err != nil {
			t.Errorf("Provide: %v", err)
		}
		return Hooks{}
	}
	f := newFixture(t, Config{Plugins: []Plugin{provider}})

	api, ok := Capability(f.el, counterKey)
	if !ok || api.n != 1 {
		t.Fatalf("Capability = %v, %v", api, ok)
	}
	if names := f.el.Plugins().Names(); len(names) != 1 || names[0] != "counter" {
		t.Errorf("Names = %v", names)
	}

	err := Provide(f.el, counterKey, &counterAPI{})
	if !stderrors.Is(err, ErrCapabilityExists) {
		t.Errorf("duplicate Provide err = %v", err)
	}
	if !strings.HasPrefix(err.Error(), "E104") {
		t.Errorf("error = %q", err)
	}

	if _, ok := Capability(f.el, NewKey[string]("counter")); ok {
		t.Error("capability with mismatched type should not resolve")
	}
	if _, ok := Capability(f.el, NewKey[int]("missing")); ok {
		t.Error("missing capability resolved")
	}
}

func TestApplyAndOrigin(t *testing.T) {
	ref := &countingRef{Ref: prop.NewRef(0.0)}
	f := newFixture(t, Config{Properties: map[string]any{"count": ref}})
	f.mount()

	f.el.Apply("count", prop.Literal(3.0), WithOrigin(prop.OriginExternal))
	if ref.sets != 0 {
		t.Error("external-origin write was pushed to the ref")
	}
	f.el.Apply("count", prop.Updater(func(prev any) any { return prev.(float64) + 1 }))
	if ref.sets != 1 || ref.Get() != 4.0 {
		t.Errorf("sets = %d, ref = %v", ref.sets, ref.Get())
	}
}

func TestSetMultiple(t *testing.T) {
	f := newFixture(t, Config{Properties: map[string]any{"a": 0, "b": 0}})
	f.mount()
	f.comp.reset()

	f.loop.Do(func() { f.el.SetMultiple(map[string]any{"b": 2, "a": 1, "zzz": 3}) })
	if len(f.comp.updates) != 2 {
		t.Fatalf("updates = %v", f.comp.updates)
	}
	if _, ok := f.comp.updates[0]["a"]; !ok {
		t.Error("updates should run in key order")
	}
	if len(f.comp.renders) != 1 {
		t.Errorf("renders = %d, want 1", len(f.comp.renders))
	}
}
