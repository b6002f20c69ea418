package preview

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/velement/internal/config"
	"github.com/vango-dev/velement/pkg/components"
	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host/dom"
	"github.com/vango-dev/velement/pkg/loop"
	"github.com/vango-dev/velement/pkg/middleware"
	"github.com/vango-dev/velement/pkg/render"
)

// Page is a document of mounted elements.
type Page struct {
	manifest *config.Manifest
	registry *components.Registry

	doc      *dom.Document
	loop     *loop.Loop
	elements map[string]*element.Element
	order    []string

	metrics     *element.Metrics
	httpMetrics func(http.Handler) http.Handler
	promReg     *prometheus.Registry
	logger      *slog.Logger
}

// Option configures a Page.
type Option func(*Page)

// WithRegistry sets the component registry (default: components.Default()).
func WithRegistry(r *components.Registry) Option {
	return func(p *Page) {
		p.registry = r
	}
}

// WithLoop sets the loop elements run on.
func WithLoop(l *loop.Loop) Option {
	return func(p *Page) {
		p.loop = l
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Page) {
		p.logger = logger
	}
}

// New creates an unmounted page for m. The manifest is validated against
// the registry.
func New(m *config.Manifest, opts ...Option) (*Page, error) {
	p := &Page{
		manifest: m,
		registry: components.Default(),
		doc:      dom.NewDocument(),
		elements: make(map[string]*element.Element),
		promReg:  prometheus.NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.loop == nil {
		p.loop = loop.New(loop.WithLogger(p.logger))
	}
	if err := m.Validate(func(tag string) bool {
		_, ok := p.registry.Lookup(tag)
		return ok
	}); err != nil {
		return nil, err
	}

	p.metrics = element.NewMetrics(element.WithRegistry(p.promReg))
	p.httpMetrics = middleware.Prometheus(middleware.WithRegistry(p.promReg))
	p.doc.SetTitle(m.Title)
	return p, nil
}

// Mount builds every element and attaches it to the body in manifest
// order.
func (p *Page) Mount() error {
	batch := p.manifest.Batch()
	for _, c := range p.manifest.Components {
		h := p.doc.CreateElement(c.Tag)
		h.SetAttribute("id", c.ID)
		for name, value := range c.Attributes {
			h.SetAttribute(name, value)
		}

		cfg := element.Config{
			Host:    h,
			Loop:    p.loop,
			Logger:  p.logger.With("id", c.ID),
			Metrics: p.metrics,
		}
		if !batch {
			cfg.BatchRender = element.Unbatched()
		}
		el, err := p.registry.Build(c.Tag, cfg)
		if err != nil {
			return err
		}

		if c.Slot != "" {
			slot := p.doc.CreateElement("span")
			if err := slot.SetInnerHTML(render.EscapeHTML(c.Slot)); err != nil {
				return err
			}
			el.SetChildContent(slot)
		}

		p.elements[c.ID] = el
		p.order = append(p.order, c.ID)
		p.doc.Body().AppendChild(h)
	}
	p.logger.Info("page mounted", "title", p.manifest.Title, "components", len(p.order))
	return nil
}

// Unmount destroys every element.
func (p *Page) Unmount() {
	for _, id := range p.order {
		p.elements[id].Destroy()
	}
}

// Element returns the element with the given manifest id.
func (p *Page) Element(id string) (*element.Element, bool) {
	el, ok := p.elements[id]
	return el, ok
}

// IDs returns the element ids in manifest order.
func (p *Page) IDs() []string {
	return append([]string(nil), p.order...)
}

// HTML returns the serialized document.
func (p *Page) HTML() string {
	return "<!DOCTYPE html>" + p.doc.HTML()
}

// Document returns the page document.
func (p *Page) Document() *dom.Document {
	return p.doc
}

// Loop returns the page loop.
func (p *Page) Loop() *loop.Loop {
	return p.loop
}

// Gatherer exposes the page's element metrics.
func (p *Page) Gatherer() prometheus.Gatherer {
	return p.promReg
}
