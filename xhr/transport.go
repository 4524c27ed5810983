package xhr

import (
	"context"
	"sync"

	apperrors "github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/httpclient"
)

// Transport performs one HTTP exchange. A Request calls Do exactly once per
// Send. Any HTTP status is a response; an error means no usable response.
type Transport interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

// TransportProvider obtains the transport for a send. It runs on the send
// goroutine and may fail, in which case the request fires error and
// finishes without ever reaching HeadersReceived.
type TransportProvider func(ctx context.Context) (Transport, error)

// StaticTransport returns a provider that always yields t.
func StaticTransport(t Transport) TransportProvider {
	return func(context.Context) (Transport, error) {
		return t, nil
	}
}

var (
	sharedOnce    sync.Once
	sharedAdapter *httpclient.Adapter
	sharedErr     error
)

// DefaultTransport lazily creates one httpclient.Adapter with default
// configuration and shares it between all requests of the process.
func DefaultTransport(context.Context) (Transport, error) {
	sharedOnce.Do(func() {
		sharedAdapter, sharedErr = httpclient.New(httpclient.Config{})
	})
	if sharedErr != nil {
		return nil, apperrors.TransportUnavailable(sharedErr)
	}
	return sharedAdapter, nil
}
