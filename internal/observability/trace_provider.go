package observability

import (
	"context"
	"fmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"os"
)

const ServiceName = "sip-n-sync"

// ConfigureTraceProvider installs the global tracer provider. exporter is one
// of "none", "stdout" or "otlp"; with "none" spans are recorded but dropped.
func ConfigureTraceProvider(ctx context.Context, exporter, otlpEndpoint string) (*tracesdk.TracerProvider, error) {
	opts := []tracesdk.TracerProviderOption{
		tracesdk.WithResource(resource.NewWithAttributes(
			"",
			attribute.String("service.name", ServiceName),
		)),
	}

	switch exporter {
	case "", "none":
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		opts = append(opts, tracesdk.WithBatcher(exp))
	case "otlp":
		clientOpts := []otlptracegrpc.Option{otlptracegrpc.WithInsecure()}
		if otlpEndpoint != "" {
			clientOpts = append(clientOpts, otlptracegrpc.WithEndpoint(otlpEndpoint))
		}
		exp, err := otlptracegrpc.New(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
		opts = append(opts, tracesdk.WithBatcher(exp))
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", exporter)
	}

	tp := tracesdk.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)

	// without this, traces are not propagated via messages
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp, nil
}
