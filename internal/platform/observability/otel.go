package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Instruments are the process-wide logger, tracer provider and meter provider.
type Instruments struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Options tune Init. Zero values give a stdout-only JSON logger tagged "local" that samples
// every trace.
type Options struct {
	ServiceName string
	Environment string
	// LogFile, when set, tees log output into a size-rotated file.
	LogFile string
	// SampleRatio in (0,1) samples root spans by trace id; other values sample everything.
	SampleRatio float64
}

// Init installs the process logger and the global otel providers. shutdown flushes spans,
// closes the meter provider and the log file.
func Init(ctx context.Context, opts Options) (*Instruments, func(context.Context) error, error) {
	logger, closeLog := NewLogger(os.Stdout, opts.LogFile)
	slog.SetDefault(logger)
	if opts.ServiceName != "" {
		logger = logger.With(slog.String("service", opts.ServiceName))
	}

	res, err := serviceResource(ctx, opts)
	if err != nil {
		_ = closeLog()
		return nil, nil, fmt.Errorf("otel resource: %w", err)
	}
	tp, err := tracerProvider(ctx, res, opts.SampleRatio, logger)
	if err != nil {
		_ = closeLog()
		return nil, nil, fmt.Errorf("otel tracing: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(sdkmetric.NewManualReader()))

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	shutdown := func(ctx context.Context) error {
		return errors.Join(mp.Shutdown(ctx), tp.Shutdown(ctx), closeLog())
	}
	return &Instruments{Logger: logger, TracerProvider: tp, MeterProvider: mp}, shutdown, nil
}

func serviceResource(ctx context.Context, opts Options) (*resource.Resource, error) {
	env := strings.TrimSpace(opts.Environment)
	if env == "" {
		env = "local"
	}
	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("deployment.environment", env),
		),
	)
}

func tracerProvider(ctx context.Context, res *resource.Resource, ratio float64, logger *slog.Logger) (*sdktrace.TracerProvider, error) {
	exporter, err := newSpanExporter(ctx, logger)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(ratio)),
		sdktrace.WithBatcher(exporter),
	), nil
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// NewLogger builds the JSON slog logger. With a file path, output goes to both w and a
// lumberjack-rotated file; the returned func closes that file.
func NewLogger(w io.Writer, file string) (*slog.Logger, func() error) {
	closeFn := func() error { return nil }
	if file = strings.TrimSpace(file); file != "" {
		rot := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		w = io.MultiWriter(w, rot)
		closeFn = rot.Close
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true})
	return slog.New(handler), closeFn
}

// Tracer is nil-safe and falls back to the global provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i != nil && i.TracerProvider != nil {
		return i.TracerProvider.Tracer(name)
	}
	return otel.Tracer(name)
}

// Meter is nil-safe and falls back to a noop meter.
func (i *Instruments) Meter(name string) metric.Meter {
	if i != nil && i.MeterProvider != nil {
		return i.MeterProvider.Meter(name)
	}
	return metricnoop.NewMeterProvider().Meter(name)
}

// newSpanExporter exports over OTLP/HTTP when OTEL_EXPORTER_OTLP_ENDPOINT is set and drops spans
// otherwise. An exporter that cannot be built degrades to pretty-printed stdout.
func newSpanExporter(ctx context.Context, logger *slog.Logger) (sdktrace.SpanExporter, error) {
	endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if endpoint == "" {
		return stdouttrace.New(stdouttrace.WithWriter(io.Discard))
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0" {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		logger.Warn("OTLP exporter unavailable, printing spans to stdout", slog.String("endpoint", endpoint), slog.String("error", err.Error()))
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	return exporter, nil
}
