package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ToolMeta identifies one tool operation across spans, metrics, and logs.
type ToolMeta struct {
	ID        string // fully qualified id; derived from Namespace and Name when empty
	Namespace string
	Name      string // required
	Operation string
	Version   string
	Tags      []string
	Category  string
}

// ToolID returns the fully qualified identifier, preferring the explicit
// ID field over the namespace.name derivation.
func (m ToolMeta) ToolID() string {
	if m.ID != "" {
		return m.ID
	}
	if m.Namespace != "" {
		return m.Namespace + "." + m.Name
	}
	return m.Name
}

// SpanName returns the deterministic span name,
// tool.exec.<namespace>.<name> or tool.exec.<name>.
func (m ToolMeta) SpanName() string {
	if m.Namespace != "" {
		return "tool.exec." + m.Namespace + "." + m.Name
	}
	return "tool.exec." + m.Name
}

// Validate checks that the metadata names a tool.
func (m ToolMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingToolName
	}
	return nil
}

// attributes renders the metadata as span attributes. Optional fields
// are omitted when empty.
func (m ToolMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("tool.id", m.ToolID()),
		attribute.String("tool.name", m.Name),
	}
	if m.Namespace != "" {
		attrs = append(attrs, attribute.String("tool.namespace", m.Namespace))
	}
	if m.Operation != "" {
		attrs = append(attrs, attribute.String("tool.operation", m.Operation))
	}
	if m.Version != "" {
		attrs = append(attrs, attribute.String("tool.version", m.Version))
	}
	if m.Category != "" {
		attrs = append(attrs, attribute.String("tool.category", m.Category))
	}
	if len(m.Tags) > 0 {
		attrs = append(attrs, attribute.StringSlice("tool.tags", m.Tags))
	}
	return attrs
}

// Tracer manages per-invocation spans over the OpenTelemetry tracer.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan is best-effort and must not panic.
type Tracer interface {
	StartSpan(ctx context.Context, meta ToolMeta) (context.Context, trace.Span)
	EndSpan(span trace.Span, err error)
}

type otelTracer struct {
	tracer trace.Tracer
}

func newTracer(t trace.Tracer) Tracer {
	return &otelTracer{tracer: t}
}

// StartSpan opens an internal span named for the tool, carrying the tool
// metadata as attributes. tool.error starts false and flips in EndSpan.
func (t *otelTracer) StartSpan(ctx context.Context, meta ToolMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(), attribute.Bool("tool.error", false))
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan closes the span, recording err when present.
func (t *otelTracer) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("tool.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ToolMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
