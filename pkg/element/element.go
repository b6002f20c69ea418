package element

import (
	stderrors "errors"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/vango-dev/velement/internal/errors"
	"github.com/vango-dev/velement/pkg/host"
	"github.com/vango-dev/velement/pkg/loop"
	"github.com/vango-dev/velement/pkg/prop"
	"github.com/vango-dev/velement/pkg/render"
)

const tracerName = "velement"

// ErrNoHost is returned by New when Config has neither a Host nor a
// Document to create one in.
var ErrNoHost = stderrors.New("element: config needs a Host or a Document")

// Element is a reactive UI element bound to one host node.
type Element struct {
	tag  string
	comp Component
	cfg  Config

	host  host.Element
	root  host.Root
	child host.Element

	loop    *loop.Loop
	store   *prop.Store
	sched   *render.Scheduler
	plugins *Registry
	hooks   []Hooks

	state State
	style host.StyleHandle

	// reflecting is the attribute currently being written by reflection.
	reflecting string

	renderHooks []*renderHook

	logger  *slog.Logger
	metrics *Metrics
	tracer  tracer
}

// New creates an element. The component's properties are normalized, the
// store is initialized from the host attributes, styles and plugins are
// installed, and the element starts observing its host node. An already
// connected host mounts immediately.
//
// A malformed structural attribute fails with an E102 error wrapping
// *coerce.CoercionError.
func New(tag string, comp Component, cfg Config) (*Element, error) {
	e := &Element{
		tag:     tag,
		comp:    comp,
		cfg:     cfg,
		loop:    cfg.Loop,
		plugins: newRegistry(),
		metrics: cfg.Metrics,
	}

	switch {
	case cfg.Host != nil:
		e.host = cfg.Host
		e.tag = cfg.Host.TagName()
	case cfg.Document != nil:
		e.host = cfg.Document.CreateElement(tag)
		e.tag = e.host.TagName()
	default:
		return nil, ErrNoHost
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e.logger = logger.With("component", "velement", "tag", e.tag)

	t := cfg.Tracer
	if t == nil {
		t = otel.Tracer(tracerName)
	}
	e.tracer = tracer{t: t, tag: e.tag}

	if e.loop == nil {
		e.loop = loop.New(loop.WithLogger(e.logger))
	}

	if cfg.Shadow {
		e.root = e.host.AttachShadow()
	} else {
		e.root = e.host
	}

	store, err := prop.NewStore(prop.NormalizeAll(cfg.Properties), e.host, sink{e}, e.logger)
	if err != nil {
		return nil, err
	}
	e.store = store
	e.sched = render.NewScheduler(cfg.batch(), e.loop, e.scheduledRender)

	e.installStyle()
	for _, install := range cfg.StyleInstallers {
		install(e)
	}

	for _, p := range cfg.Plugins {
		e.hooks = append(e.hooks, p(e, cfg))
	}

	e.host.Observe(host.Reactions{
		Connected:        e.connected,
		Disconnected:     e.disconnected,
		AttributeChanged: e.attributeChanged,
	}, e.store.Keys())

	if e.host.IsConnected() {
		e.connected()
	}
	return e, nil
}

// Tag returns the host node's tag name.
func (e *Element) Tag() string { return e.tag }

// Host returns the host node.
func (e *Element) Host() host.Element { return e.host }

// Root returns the render target: the shadow root or the host node.
func (e *Element) Root() host.Root { return e.root }

// Loop returns the loop that runs batched renders.
func (e *Element) Loop() *loop.Loop { return e.loop }

// Plugins returns the capability registry.
func (e *Element) Plugins() *Registry { return e.plugins }

// Logger returns the element's logger.
func (e *Element) Logger() *slog.Logger { return e.logger }

// Component returns the element's component.
func (e *Element) Component() Component { return e.comp }

// Get returns the value of key, or nil for an undeclared key.
func (e *Element) Get(key string) any {
	v, _ := e.store.Get(key)
	return v
}

// Lookup returns the value of key and whether key is declared.
func (e *Element) Lookup(key string) (any, bool) {
	return e.store.Get(key)
}

// PropertyExists reports whether key is a declared property.
func (e *Element) PropertyExists(key string) bool {
	return e.store.Has(key)
}

// Props returns a snapshot of all property values.
func (e *Element) Props() prop.Props {
	return e.store.Snapshot()
}

// SetOption modifies a single property write.
type SetOption func(*prop.Mutation)

// NoReflect suppresses attribute reflection for the write.
func NoReflect() SetOption {
	return func(m *prop.Mutation) { m.NoReflect = true }
}

// WithOrigin tags the write's origin. Writes tagged prop.OriginExternal
// are not pushed back to the property's external reference.
func WithOrigin(o prop.Origin) SetOption {
	return func(m *prop.Mutation) { m.Origin = o }
}

func mutation(opts []SetOption) prop.Mutation {
	var m prop.Mutation
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Set stores v under key and reports whether the value changed. v is
// stored as-is even when it is a function; use SetFunc for updates.
func (e *Element) Set(key string, v any, opts ...SetOption) bool {
	return e.store.Set(key, prop.Literal(v), mutation(opts))
}

// SetFunc replaces the value of key with fn applied to the current value.
func (e *Element) SetFunc(key string, fn func(prev any) any, opts ...SetOption) bool {
	return e.store.Set(key, prop.Updater(fn), mutation(opts))
}

// Apply writes a literal or updater value.
func (e *Element) Apply(key string, v prop.Value, opts ...SetOption) bool {
	return e.store.Set(key, v, mutation(opts))
}

// SetMultiple writes each entry in key order. Every key is compared and
// announced on its own; only the render is coalesced.
func (e *Element) SetMultiple(values map[string]any, opts ...SetOption) {
	e.store.SetMultiple(prop.SortedUpdates(values), mutation(opts))
}

// SetChildContent sets the node passed to Render as its child argument.
func (e *Element) SetChildContent(child host.Element) {
	e.child = child
	if e.state == StateMounted {
		e.sched.Request()
	}
}

// ChildContent returns the node set with SetChildContent.
func (e *Element) ChildContent() host.Element {
	return e.child
}

// Update renders immediately if the element is mounted.
func (e *Element) Update() {
	if e.state != StateMounted {
		return
	}
	e.sched.Cancel()
	e.render()
}

// Destroy detaches the host node, tearing the element down.
func (e *Element) Destroy() {
	if e.host.IsConnected() {
		e.host.Remove()
		return
	}
	e.disconnected()
}

// OnRender registers fn to run after every render that replaced the
// content of the render root.
func (e *Element) OnRender(fn func(el *Element)) (remove func()) {
	h := &renderHook{fn: fn}
	e.renderHooks = append(e.renderHooks, h)
	return func() {
		if h.removed {
			return
		}
		h.removed = true
		for i, other := range e.renderHooks {
			if other == h {
				e.renderHooks = append(e.renderHooks[:i], e.renderHooks[i+1:]...)
				return
			}
		}
	}
}

// RenderHooks returns the number of registered render hooks.
func (e *Element) RenderHooks() int {
	return len(e.renderHooks)
}

type renderHook struct {
	fn      func(*Element)
	removed bool
}

// scheduledRender is the scheduler callback. A render requested before
// teardown is dropped.
func (e *Element) scheduledRender() {
	if e.state != StateMounted {
		return
	}
	e.render()
}

func (e *Element) render() {
	span := e.tracer.start("velement.render")
	defer span.End()
	done := e.metrics.renderTimer(e.tag)
	defer done()

	markup, ok := e.comp.Render(e.store.Snapshot(), e.child)
	if !ok || markup == "" {
		return
	}
	if err := e.root.SetInnerHTML(markup); err != nil {
		err = errors.New("E105").WithDetail(e.tag).Wrap(err)
		span.RecordError(err)
		e.logger.Error("render failed", "code", "E105", "error", err)
		return
	}
	for _, h := range append([]*renderHook(nil), e.renderHooks...) {
		if !h.removed {
			h.fn(e)
		}
	}
}

func (e *Element) installStyle() {
	if e.cfg.StyleText == "" || e.style != nil {
		return
	}
	if e.cfg.Shadow {
		e.style = e.root.AdoptStyle(e.cfg.StyleText)
		return
	}
	e.style = e.host.Document().InstallStyle(e.cfg.StyleText)
}

func (e *Element) releaseStyle() {
	if e.style == nil {
		return
	}
	e.style.Release()
	e.style = nil
}

func (e *Element) attributeChanged(name, _, value string, present bool) {
	if name == e.reflecting {
		return
	}
	if err := e.store.AttributeChanged(name, value, present); err != nil {
		e.logger.Error("attribute change rejected", "code", "E102", "attribute", name, "error", err)
	}
}

// sink routes store side effects back into the element.
type sink struct{ e *Element }

func (s sink) Reflect(key, text string, present bool) {
	e := s.e
	prev := e.reflecting
	e.reflecting = key
	defer func() { e.reflecting = prev }()

	if present {
		e.host.SetAttribute(key, text)
	} else {
		e.host.RemoveAttribute(key)
	}
}

func (s sink) Changed(changed, all prop.Props) {
	if u, ok := s.e.comp.(Updater); ok {
		u.OnUpdate(changed, all)
	}
}

func (s sink) RequestRender() {
	if s.e.state == StateMounted {
		s.e.sched.Request()
	}
}

func (s sink) Warning(w prop.Warning) {
	s.e.metrics.warning(s.e.tag, string(w.Kind))
}
