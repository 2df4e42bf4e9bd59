package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	before := otel.GetTracerProvider()
	shutdown, err := Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Error("Setup without an endpoint should leave the global provider alone")
	}
}

func TestInstallRecordsSpans(t *testing.T) {
	ctx := context.Background()
	exp := tracetest.NewInMemoryExporter()

	shutdown, err := Install(ctx, sdktrace.WithSyncer(exp))
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	defer shutdown(ctx)

	_, span := Tracer("dungeon").Start(ctx, "dungeon.generate")
	span.SetAttributes(attribute.Int("rooms.placed", 8))
	span.End()

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "dungeon.generate" {
		t.Errorf("Unexpected span name %q", spans[0].Name)
	}
	if spans[0].InstrumentationScope.Name != "dungeoncrawler/dungeon" {
		t.Errorf("Unexpected tracer name %q", spans[0].InstrumentationScope.Name)
	}

	var service string
	for _, kv := range spans[0].Resource.Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	if service != "dungeoncrawler" {
		t.Errorf("Expected service.name dungeoncrawler, got %q", service)
	}
}
