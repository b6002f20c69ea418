package element

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type tracer struct {
	t   trace.Tracer
	tag string
}

func (t tracer) start(name string) trace.Span {
	_, span := t.t.Start(context.Background(), name,
		trace.WithAttributes(attribute.String("velement.tag", t.tag)),
	)
	return span
}
