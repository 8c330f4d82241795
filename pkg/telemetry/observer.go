package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tgecore/tge/pkg/observer"
)

// Observer implements observer.Observer, recording compile-pass events
// as OpenTelemetry metrics and, for the pass-level span, a trace.
type Observer struct {
	provider *Provider
	tracer   trace.Tracer

	passSpan trace.Span
}

// NewObserver creates an Observer backed by provider. tracer may be nil,
// in which case span recording is skipped and only metrics are recorded.
func NewObserver(provider *Provider, tracer trace.Tracer) *Observer {
	return &Observer{provider: provider, tracer: tracer}
}

func (o *Observer) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventPassStart:
		o.handlePassStart(ctx, event)
	case observer.EventPassComplete:
		o.handlePassComplete(ctx, event)
	case observer.EventNodeCompiled:
		o.provider.RecordNodeCompiled(ctx, event.NodeName, event.Replicas)
	case observer.EventAuxEmitted:
		o.provider.RecordAuxEmitted(ctx, event.BuilderKind, event.AuxCount)
	}
}

func (o *Observer) handlePassStart(ctx context.Context, event observer.Event) {
	if o.tracer == nil {
		return
	}
	_, span := o.tracer.Start(ctx, "compile.pass",
		trace.WithAttributes(
			attribute.String("run_id", event.RunID),
			attribute.Int("graph_nodes", event.GraphNodes),
		),
	)
	o.passSpan = span
}

func (o *Observer) handlePassComplete(ctx context.Context, event observer.Event) {
	o.provider.RecordCompilePass(ctx, event.Elapsed, event.Error == nil)

	if o.passSpan == nil {
		return
	}
	if event.Error != nil {
		o.passSpan.RecordError(event.Error)
		o.passSpan.SetStatus(codes.Error, event.Error.Error())
	} else {
		o.passSpan.SetStatus(codes.Ok, "compile pass completed")
	}
	o.passSpan.End()
	o.passSpan = nil
}
