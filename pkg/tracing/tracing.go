// Package tracing installs the OpenTelemetry tracer provider.
//
// Tracing is off unless OTEL_EXPORTER_OTLP_ENDPOINT or
// OTEL_EXPORTER_OTLP_TRACES_EXPORTER is set, in which case spans are sent
// over OTLP gRPC. The exporter reads the other standard OTEL_* variables
// itself.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/quellcode/quellcode/pkg/version"
)

const serviceName = "quellcode"

var ErrExporter = errors.New("create exporter")

// EndpointEnvVars enable tracing when any of them is set.
var EndpointEnvVars = []string{
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

type config struct {
	exporter sdktrace.SpanExporter
	lookup   func(string) (string, bool)
}

type Opt func(*config)

// WithExporter uses e instead of an OTLP exporter and enables tracing
// regardless of the environment.
func WithExporter(e sdktrace.SpanExporter) Opt {
	return func(c *config) {
		c.exporter = e
	}
}

// WithLookupEnv replaces [os.LookupEnv].
func WithLookupEnv(fn func(string) (string, bool)) Opt {
	return func(c *config) {
		c.lookup = fn
	}
}

// Enabled reports whether an OTLP endpoint is configured.
func Enabled(lookup func(string) (string, bool)) bool {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	for _, k := range EndpointEnvVars {
		if v, ok := lookup(k); ok && v != "" {
			return true
		}
	}

	return false
}

// Setup installs a global tracer provider. When tracing is disabled the
// global no-op provider is left in place and the returned func does
// nothing.
func Setup(ctx context.Context, opts ...Opt) (ShutdownFunc, error) {
	c := &config{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(c)
	}

	exporter := c.exporter
	if exporter == nil {
		if !Enabled(c.lookup) {
			return func(context.Context) error { return nil }, nil
		}

		var err error

		exporter, err = otlptracegrpc.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExporter, err)
		}
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version.GetVersion()),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown tracer provider: %w", err)
		}

		return nil
	}, nil
}
