package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Adapter is a configurable HTTP transport: one Request in, one fully-read
// Response out.
type Adapter struct {
	httpClient *http.Client
	config     Config
	baseURL    *url.URL
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithRoundTripper replaces the underlying transport, e.g. for tests.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(a *Adapter) {
		a.httpClient.Transport = rt
	}
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}

	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("parse base url: %v", err))
		}
		a.baseURL = base
	}

	for _, opt := range opts {
		opt(a)
	}

	if cfg.Tracing {
		a.httpClient.Transport = otelhttp.NewTransport(a.httpClient.Transport)
	}

	return a, nil
}

// Do executes one HTTP request and returns the complete response. Every
// HTTP status is a successful exchange; errors mean no usable response.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.config.MaxResponseBytes+1))
	if err != nil {
		if isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}
	if int64(len(body)) > a.config.MaxResponseBytes {
		return nil, NewDecodeError(resp.StatusCode, fmt.Sprintf("response body exceeds %d bytes", a.config.MaxResponseBytes))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if req.ResponseType == ResponseTypeText {
		text, err := decodeText(resp.StatusCode, resp.Header.Get("Content-Type"), body)
		if err != nil {
			return nil, err
		}
		result.Text = text
	}

	return result, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// Close releases idle connections held by the adapter.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// GetConfig returns the adapter's configuration.
func (a *Adapter) GetConfig() Config {
	return a.config
}

// ResolveURL resolves raw against the configured BaseURL.
func (a *Adapter) ResolveURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if a.baseURL == nil || u.IsAbs() {
		return u.String(), nil
	}
	return a.baseURL.ResolveReference(u).String(), nil
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	target, err := a.ResolveURL(req.URL)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("parse url: %v", err))
	}

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	}

	return httpReq, nil
}

// flattenHeaders converts multi-value headers to single-value, joining
// repeated values with ", " as the browser does.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = strings.Join(v, ", ")
		}
	}
	return result
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
