package xhr

import (
	"context"

	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/observability"
)

// Option configures a Request.
type Option func(*Request)

// WithTransport sends through t.
func WithTransport(t Transport) Option {
	return func(r *Request) { r.provider = StaticTransport(t) }
}

// WithTransportProvider obtains the transport from p on every send.
func WithTransportProvider(p TransportProvider) Option {
	return func(r *Request) { r.provider = p }
}

// WithLogger sets the logger. The request adds its own request_id field.
func WithLogger(l *logger.Logger) Option {
	return func(r *Request) { r.log = l }
}

// WithMetrics records send metrics on m. A nil m disables metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Request) {
		r.metrics = m
		r.metricsSet = true
	}
}

// WithContext sets the parent context of every send, e.g. to carry a trace.
// Cancellation of ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(r *Request) { r.baseCtx = ctx }
}
