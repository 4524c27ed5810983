// Package component defines lifecycle-managed infrastructure pieces (the
// HTTP transport, telemetry providers) and a registry that starts them in
// order and stops them in reverse.
package component
