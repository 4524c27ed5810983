package httpclient

// ResponseType selects how the response body is decoded.
type ResponseType int

const (
	// ResponseTypeRaw leaves the body as bytes.
	ResponseTypeRaw ResponseType = iota
	// ResponseTypeText decodes the body to UTF-8 text using the response charset.
	ResponseTypeText
)

// String returns the response type name.
func (t ResponseType) String() string {
	switch t {
	case ResponseTypeRaw:
		return "raw"
	case ResponseTypeText:
		return "text"
	default:
		return "unknown"
	}
}

// Request describes one outbound HTTP request.
type Request struct {
	// Method is the HTTP method, sent as given.
	Method string
	// URL is absolute, or relative to the adapter's BaseURL.
	URL string
	// Headers are request-specific headers (merged over client defaults).
	Headers map[string]string
	// Body is the text request body. Empty means no body.
	Body string
	// ResponseType selects response decoding.
	ResponseType ResponseType
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, one value per name.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
	// Text is the decoded body when ResponseTypeText was requested.
	Text string
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}
