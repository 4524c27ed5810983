// Package observability provides OpenTelemetry tracing and metrics for
// xhrkit requests.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("xhrget"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("xhrget"))
//	defer mp.Shutdown(ctx)
//
// Instruments are created against the global providers, so a request sent
// before InitMeter still reports once the provider is installed. The
// TelemetryComponent wires both providers into a component.Registry.
package observability
