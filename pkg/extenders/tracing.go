package extenders

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
)

// Default tracer name for form bindings.
const defaultTracerName = "formic"

// TracingConfig configures the OpenTelemetry extender.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "formic").
	TracerName string

	// Attributes are added to every submission span.
	Attributes []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// TracingOption configures the OpenTelemetry extender.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) { c.TracerName = name }
}

// WithAttributes adds constant attributes to every submission span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) { c.Attributes = append(c.Attributes, attrs...) }
}

// Tracing creates an extender that traces every submission.
//
// A span named "formic.submit" covers the whole pipeline run, bracketed
// by the isSubmitting transitions. Failed submissions set the span
// status to Error via the submit-error hook.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure
// it in your main() before binding:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func Tracing(opts ...TracingOption) form.Extender {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return func(ec form.ExtenderContext) any {
		inst := &tracingInstance{config: config, controls: len(ec.Controls)}
		inst.unsub = ec.IsSubmitting.Subscribe(func(submitting bool) {
			if submitting && inst.span == nil {
				attrs := append([]attribute.KeyValue{
					attribute.Int("formic.control_count", inst.controls),
				}, config.Attributes...)
				_, inst.span = config.tracer.Start(
					context.Background(),
					"formic.submit",
					trace.WithSpanKind(trace.SpanKindInternal),
					trace.WithAttributes(attrs...),
				)
				return
			}
			if !submitting && inst.span != nil {
				if !inst.failed {
					inst.span.SetStatus(codes.Ok, "")
				}
				inst.span.End()
				inst.span = nil
				inst.failed = false
			}
		})
		return inst
	}
}

type tracingInstance struct {
	config   TracingConfig
	controls int
	unsub    func()
	span     trace.Span
	failed   bool
}

// OnSubmitError marks the active span as failed.
func (i *tracingInstance) OnSubmitError(_ context.Context, _, errs path.Tree) {
	if i.span == nil {
		return
	}
	i.failed = true
	i.span.SetAttributes(attribute.Int("formic.error_paths", countMessages(errs)))
	i.span.SetStatus(codes.Error, "submission failed")
}

// Destroy releases the subscription and closes any dangling span left
// by a submission still in flight at teardown.
func (i *tracingInstance) Destroy() {
	i.unsub()
	if i.span != nil {
		i.span.End()
		i.span = nil
	}
}

// countMessages counts the error-tree leaves that carry a message.
func countMessages(v any) int {
	switch t := v.(type) {
	case path.Tree:
		n := 0
		for _, cv := range t {
			n += countMessages(cv)
		}
		return n
	case []any:
		n := 0
		for _, cv := range t {
			n += countMessages(cv)
		}
		return n
	case string:
		if t != "" {
			return 1
		}
		return 0
	case []string:
		n := 0
		for _, s := range t {
			if s != "" {
				n++
			}
		}
		return n
	default:
		return 0
	}
}
