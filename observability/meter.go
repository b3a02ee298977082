package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/batchkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// Enabled turns exporting on.
	Enabled bool `mapstructure:"enabled"`
	// ServiceName is the name of the service.
	ServiceName string `mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// BatchMetrics holds the instruments recorded by batch iterations.
// A nil *BatchMetrics is valid and records nothing.
type BatchMetrics struct {
	batchesTotal metric.Int64Counter
	itemsTotal   metric.Int64Counter
	runDuration  metric.Float64Histogram
	errorTotal   metric.Int64Counter
}

// NewBatchMetrics creates metric instruments on the given meter.
func NewBatchMetrics(meter metric.Meter) (*BatchMetrics, error) {
	batchesTotal, err := meter.Int64Counter("batch.batches.total",
		metric.WithDescription("Total number of batches handed to handlers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batch.batches.total counter: %w", err)
	}

	itemsTotal, err := meter.Int64Counter("batch.items.total",
		metric.WithDescription("Total number of items handed to handlers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batch.items.total counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("batch.run.duration",
		metric.WithDescription("Duration of complete iterations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batch.run.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("batch.errors.total",
		metric.WithDescription("Iterations that ended in error, by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batch.errors.total counter: %w", err)
	}

	return &BatchMetrics{
		batchesTotal: batchesTotal,
		itemsTotal:   itemsTotal,
		runDuration:  runDuration,
		errorTotal:   errorTotal,
	}, nil
}

// RecordBatch records one processed window of the given size.
func (m *BatchMetrics) RecordBatch(ctx context.Context, kind string, items int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	m.batchesTotal.Add(ctx, 1, attrs)
	m.itemsTotal.Add(ctx, int64(items), attrs)
}

// RecordRun records a finished iteration.
func (m *BatchMetrics) RecordRun(ctx context.Context, kind, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("path", path),
		attribute.String("status", status),
	))
}

// RecordError records an iteration failure by error code.
func (m *BatchMetrics) RecordError(ctx context.Context, kind, code string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("code", code),
	))
}
