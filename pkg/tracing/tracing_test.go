package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup_NoEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), "studyhall-test", "")
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
	if otel.GetTextMapPropagator() == nil {
		t.Error("propagator should be installed")
	}
}

func TestNewProvider_ServiceName(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := NewProvider("studyhall-test", sdktrace.WithSpanProcessor(rec))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}

	found := false
	for _, kv := range spans[0].Resource().Attributes() {
		if string(kv.Key) == "service.name" && kv.Value.AsString() == "studyhall-test" {
			found = true
		}
	}
	if !found {
		t.Errorf("service.name missing from resource: %v", spans[0].Resource().Attributes())
	}
}
