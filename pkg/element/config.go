package element

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/velement/pkg/host"
	"github.com/vango-dev/velement/pkg/loop"
)

// Config is the construction configuration of an Element.
type Config struct {
	// Shadow renders into an encapsulated shadow root instead of the host
	// node's own children.
	Shadow bool

	// Properties maps keys to raw definitions: a literal default, a
	// prop.Definition or a prop.ExternalRef.
	Properties map[string]any

	// StyleText is installed once, scoped to the shadow root when Shadow is
	// set and to the document otherwise.
	StyleText string

	// StyleInstallers run once at construction.
	StyleInstallers []func(el *Element)

	Plugins []Plugin

	// BatchRender coalesces renders per loop task. Nil means true.
	BatchRender *bool

	// Host adopts an existing node. Otherwise Document creates one.
	Host     host.Element
	Document host.Document

	// Loop schedules batched renders. A private loop is created when nil;
	// it must then be driven through el.Loop().
	Loop *loop.Loop

	Logger  *slog.Logger
	Metrics *Metrics

	// Tracer defaults to otel.Tracer("velement").
	Tracer trace.Tracer
}

// Unbatched returns a BatchRender value that disables batching.
func Unbatched() *bool {
	b := false
	return &b
}

func (c Config) batch() bool {
	return c.BatchRender == nil || *c.BatchRender
}
