package infra

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/bininfo"
)

// Tracing installs the global OpenTelemetry tracer provider. otelfiber and
// bunotel both pick it up from otel.GetTracerProvider().
func Tracing(conf *appconfig.Config, lc fx.Lifecycle) error {
	if !conf.TracingEnabled {
		log.Info().
			Str("evt.name", "infra.tracing.disabled").
			Msg("tracing is disabled")
		return nil
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(conf.TracingSampleRate))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(bininfo.Name),
			semconv.ServiceVersionKey.String(bininfo.Version),
		)),
	}

	for _, name := range conf.TracingExporters {
		var (
			exporter sdktrace.SpanExporter
			err      error
		)
		switch name {
		case "otlp":
			exporter, err = otlptracegrpc.New(context.Background())
		case "stdout":
			exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		default:
			return errors.Errorf("infra: tracing: unknown exporter %q", name)
		}
		if err != nil {
			return errors.Wrapf(err, "infra: tracing: failed to create %s exporter", name)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	log.Info().
		Str("evt.name", "infra.tracing.enabled").
		Strs("exporters", conf.TracingExporters).
		Float64("sample_rate", conf.TracingSampleRate).
		Msg("tracing is enabled")

	return nil
}
