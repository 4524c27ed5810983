package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/xhrkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for local development.
func DefaultMeterConfig(serviceName string) *MeterConfig {
	return &MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
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

	res, err := newResource(ctx, config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
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

// Outcomes recorded on xhr.send.total.
const (
	OutcomeLoad  = "load"
	OutcomeError = "error"
)

// Metrics holds the instruments recorded around each send.
type Metrics struct {
	sendTotal    metric.Int64Counter
	sendDuration metric.Float64Histogram
	sendActive   metric.Int64UpDownCounter
	errorTotal   metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	sendTotal, err := meter.Int64Counter("xhr.send.total",
		metric.WithDescription("Completed sends by method and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating xhr.send.total counter: %w", err)
	}

	sendDuration, err := meter.Float64Histogram("xhr.send.duration",
		metric.WithDescription("Time from send to the done state"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating xhr.send.duration histogram: %w", err)
	}

	sendActive, err := meter.Int64UpDownCounter("xhr.send.active",
		metric.WithDescription("Sends currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating xhr.send.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("xhr.error.total",
		metric.WithDescription("Transport failures by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating xhr.error.total counter: %w", err)
	}

	return &Metrics{
		sendTotal:    sendTotal,
		sendDuration: sendDuration,
		sendActive:   sendActive,
		errorTotal:   errorTotal,
	}, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments bound to the global meter provider.
// It returns nil if the instruments could not be created.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		m, err := NewMetrics(Meter(defaultTracerName))
		if err != nil {
			logger.Get("observability").Warn("metrics disabled", logger.Fields(logger.FieldError, err.Error()))
			return
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// RecordSendStart increments the in-flight count.
func (m *Metrics) RecordSendStart(ctx context.Context) {
	m.sendActive.Add(ctx, 1)
}

// RecordSendEnd decrements the in-flight count and records the completed send.
func (m *Metrics) RecordSendEnd(ctx context.Context, method, outcome string, duration time.Duration) {
	m.sendActive.Add(ctx, -1)
	m.sendTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
	m.sendDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
	))
}

// RecordError records a transport failure by error code.
func (m *Metrics) RecordError(ctx context.Context, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
	))
}
