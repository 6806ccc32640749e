package tracer

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/pruebavolte/salvadorex-queue/internal/config"
)

type Tracer struct {
	cfg *config.Config
}

// NewTracer creates a new instance of the Tracer.
func NewTracer(cfg *config.Config) *Tracer {
	return &Tracer{cfg: cfg}
}

// InitTracer initializes OpenTelemetry tracing against the configured OTLP
// endpoint.
func (tr *Tracer) InitTracer(ctx context.Context) (*trace.TracerProvider, error) {
	if tr.cfg.Jaeger == "" {
		return nil, errors.New("missing Jaeger endpoint in config")
	}

	exporter, err := otlptrace.New(
		ctx,
		otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint(tr.cfg.Jaeger),
			otlptracehttp.WithHeaders(map[string]string{
				"content-type": "application/json",
			}),
			otlptracehttp.WithInsecure(),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create trace exporter")
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(
			exporter,
			trace.WithMaxExportBatchSize(trace.DefaultMaxExportBatchSize),
			trace.WithBatchTimeout(trace.DefaultScheduleDelay*time.Millisecond),
		),
		trace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceNameKey.String("salvadorex-queue"),
				semconv.DeploymentEnvironmentKey.String("production"),
			),
		),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}
