package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/xhrkit/component"
)

// TelemetryComponent installs the tracer and meter providers on Start and
// flushes them on Stop. A disabled component starts and stops as a no-op.
type TelemetryComponent struct {
	config      Config
	serviceName string
	version     string
	environment string

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var _ component.Component = (*TelemetryComponent)(nil)
var _ component.Describable = (*TelemetryComponent)(nil)

// NewTelemetryComponent creates a telemetry component for the named service.
func NewTelemetryComponent(cfg Config, serviceName, version, environment string) *TelemetryComponent {
	cfg.ApplyDefaults()
	return &TelemetryComponent{
		config:      cfg,
		serviceName: serviceName,
		version:     version,
		environment: environment,
	}
}

// Name returns the component name.
func (c *TelemetryComponent) Name() string { return "telemetry" }

// Start initializes the providers when telemetry is enabled.
func (c *TelemetryComponent) Start(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

	tp, err := InitTracer(ctx, c.config.tracerConfig(c.serviceName, c.version, c.environment))
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	mp, err := InitMeter(ctx, c.config.meterConfig(c.serviceName, c.version, c.environment))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry: %w", err)
	}
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes and shuts down the providers.
func (c *TelemetryComponent) Stop(ctx context.Context) error {
	var errs []error
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
		c.mp = nil
	}
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
		c.tp = nil
	}
	return errors.Join(errs...)
}

// Health reports degraded when telemetry is disabled.
func (c *TelemetryComponent) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case !c.config.Enabled:
		h.Status = component.StatusDegraded
		h.Message = "disabled"
	case c.tp == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Describe returns the component description for the startup summary.
func (c *TelemetryComponent) Describe() component.Description {
	details := "disabled"
	if c.config.Enabled {
		details = c.config.Endpoint
	}
	return component.Description{Name: c.Name(), Type: "telemetry", Details: details}
}
