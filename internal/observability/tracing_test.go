package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, span := StartSpan(context.Background(), "test", "noop")
	if span.SpanContext().IsValid() {
		t.Error("disabled tracing produced a sampled span")
	}
	EndSpan(span, nil)
	if err := shutdown(context.Background()); err != nil {
		t.Error(err)
	}
}

func TestInitTracingStdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(context.Background(), TracingConfig{
		Enabled:     true,
		Exporter:    "stdout",
		SampleRatio: 1,
		Output:      &buf,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer otel.SetTracerProvider(sdktrace.NewTracerProvider())
	_, span := StartSpan(context.Background(), "test", "scene.Assemble", attribute.Int("frames", 25))
	EndSpan(span, errors.New("boom"))
	ShutdownWithTimeout(context.Background(), shutdown, nil)
	out := buf.String()
	if !strings.Contains(out, "scene.Assemble") || !strings.Contains(out, "boom") {
		t.Errorf("span not exported:\n%s", out)
	}
}

func TestInitTracingErrors(t *testing.T) {
	for _, cfg := range []TracingConfig{
		{Enabled: true, Exporter: "zipkin", SampleRatio: 1},
		{Enabled: true, Exporter: "stdout", SampleRatio: 1.5},
	} {
		if _, err := InitTracing(context.Background(), cfg, nil); err == nil {
			t.Errorf("%+v: expected error", cfg)
		}
	}
}

func TestEndSpanRecordsError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	_, span := tp.Tracer("test").Start(context.Background(), "export")
	EndSpan(span, errors.New("disk full"))
	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("got %d ended spans, want 1", len(ended))
	}
	if ended[0].Status().Description != "disk full" || len(ended[0].Events()) != 1 {
		t.Errorf("error not recorded: %+v %+v", ended[0].Status(), ended[0].Events())
	}
}
