package tracing

import (
	"context"
	"fmt"
	"io"

	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	ExporterHoneycomb = "honeycomb"
	ExporterStdout    = "stdout"
)

type SetupParams struct {
	Enabled     bool
	ServiceName string
	// Exporter is one of ExporterHoneycomb or ExporterStdout.
	Exporter string
	// Writer receives the spans of the stdout exporter.
	Writer io.Writer
}

// Setup installs the global tracer provider and returns its shutdown func.
// With tracing disabled the otel no-op provider stays in place.
func Setup(params SetupParams) (func(ctx context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !params.Enabled {
		log.Debugln("tracing disabled")
		return noop, nil
	}

	switch params.Exporter {
	case ExporterHoneycomb, "":
		// honeycomb distro reads OTEL_SERVICE_NAME and HONEYCOMB_API_KEY from env
		bsp := honeycomb.NewBaggageSpanProcessor()
		otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
			otelconfig.WithServiceName(params.ServiceName),
			otelconfig.WithSpanProcessor(bsp),
		)
		if err != nil {
			return noop, fmt.Errorf("configure honeycomb otel: %w", err)
		}
		log.Infof("honeycomb tracing set up for [%s]", params.ServiceName)
		return func(context.Context) error {
			otelShutdown()
			return nil
		}, nil
	case ExporterStdout:
		if params.Writer == nil {
			return noop, fmt.Errorf("stdout exporter needs a writer")
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(params.Writer))
		if err != nil {
			return noop, fmt.Errorf("create stdout exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(resource.NewSchemaless(
				attribute.String("service.name", params.ServiceName),
			)),
		)
		otel.SetTracerProvider(tp)
		log.Infof("stdout tracing set up for [%s]", params.ServiceName)
		return tp.Shutdown, nil
	default:
		return noop, fmt.Errorf("unknown tracing exporter: %s", params.Exporter)
	}
}
