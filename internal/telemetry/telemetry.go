// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telemetry builds the OpenTelemetry tracer provider used by the
// CLI. Spans are exported as pretty-printed JSON to a writer.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName identifies this program in exported spans.
const ServiceName = "deep-research"

// ShutdownFunc flushes and stops a tracer provider.
type ShutdownFunc func(context.Context) error

// NewTracerProvider returns a provider that writes every finished span to w.
// A nil writer yields a no-op provider.
func NewTracerProvider(w io.Writer, version string) (trace.TracerProvider, ShutdownFunc, error) {
	if w == nil {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating span exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version),
	)

	// Spans go out synchronously; a run is short and the CLI exits right after.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSyncer(exporter),
	)
	return tp, tp.Shutdown, nil
}
