package xhr

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/observability"
)

// ResponseType is the configured response representation.
type ResponseType string

const (
	ResponseTypeDefault     ResponseType = ""
	ResponseTypeText        ResponseType = "text"
	ResponseTypeJSON        ResponseType = "json"
	ResponseTypeDocument    ResponseType = "document"
	ResponseTypeBlob        ResponseType = "blob"
	ResponseTypeArrayBuffer ResponseType = "arraybuffer"
)

// Request is one browser-style request object. All methods are safe for
// concurrent use, but a Request runs at most one send at a time.
type Request struct {
	id         string
	log        *logger.Logger
	provider   TransportProvider
	metrics    *observability.Metrics
	metricsSet bool
	baseCtx    context.Context
	events     *dispatcher

	mu           sync.Mutex
	method       string
	url          string
	headers      map[string]string
	timeout      time.Duration
	credentials  bool
	responseType ResponseType

	state       ReadyState
	sending     bool
	respHeaders map[string]string
	body        *string
	status      int
	done        chan struct{}
}

// New creates an Unsent request.
func New(opts ...Option) *Request {
	r := &Request{
		id:          uuid.NewString(),
		provider:    DefaultTransport,
		baseCtx:     context.Background(),
		headers:     make(map[string]string),
		respHeaders: make(map[string]string),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get("xhr")
	}
	r.log = r.log.WithFields(logger.Fields(logger.FieldRequestID, r.id))
	if !r.metricsSet {
		r.metrics = observability.DefaultMetrics()
	}
	r.events = newDispatcher(r.log)
	return r
}

// ID returns the request's unique identifier.
func (r *Request) ID() string {
	return r.id
}

// Open sets the method and URL and moves the request to Opened. Headers and
// any previous response are cleared. It fails while a send is in flight.
func (r *Request) Open(method, url string) error {
	r.mu.Lock()
	if r.sending {
		r.mu.Unlock()
		return apperrors.InvalidState(string(MemberOpen), "a send is in flight")
	}
	if r.state == Done {
		r.done = make(chan struct{})
	}
	r.method = method
	r.url = url
	r.headers = make(map[string]string)
	r.respHeaders = make(map[string]string)
	r.body = nil
	r.status = 0
	r.state = Opened
	r.mu.Unlock()

	r.log.Debug("open", logger.Fields(logger.FieldMethod, method, logger.FieldURL, url))
	r.emit(Event{Type: EventReadyStateChange, ReadyState: Opened})
	return nil
}

// SetRequestHeader stores a header for the next send. The last value set
// for a name wins. Names and values are not validated.
func (r *Request) SetRequestHeader(name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Opened || r.sending {
		return apperrors.InvalidState(string(MemberSetRequestHeader), r.stateReason())
	}
	r.headers[name] = value
	return nil
}

// SetResponseType selects the response representation. Only text is
// implemented.
func (r *Request) SetResponseType(t ResponseType) error {
	switch t {
	case ResponseTypeDefault, ResponseTypeText:
	case ResponseTypeJSON, ResponseTypeDocument, ResponseTypeBlob, ResponseTypeArrayBuffer:
		return apperrors.NotImplemented(fmt.Sprintf("%s %q", MemberResponseType, t))
	default:
		return apperrors.InvalidInput(string(MemberResponseType), fmt.Sprintf("unknown response type %q", t))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sending {
		return apperrors.InvalidState(string(MemberResponseTypeSet), "a send is in flight")
	}
	r.responseType = t
	return nil
}

// ResponseType returns the configured response type.
func (r *Request) ResponseType() ResponseType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.responseType
}

// SetTimeout records a timeout. It is not enforced and the timeout event
// never fires; the transport's own timeout applies.
func (r *Request) SetTimeout(d time.Duration) {
	r.mu.Lock()
	r.timeout = d
	r.mu.Unlock()
	if d > 0 {
		r.log.Debug("timeout is recorded but not enforced", logger.Fields("timeout", d.String()))
	}
}

// Timeout returns the recorded timeout.
func (r *Request) Timeout() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timeout
}

// SetWithCredentials records whether cross-origin credentials should be
// sent. The flag is kept for callers that read it back; the transport
// decides what credentials go on the wire.
func (r *Request) SetWithCredentials(v bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sending {
		return apperrors.InvalidState(string(MemberWithCredentialsSet), "a send is in flight")
	}
	r.credentials = v
	return nil
}

// WithCredentials returns the recorded credentials flag. It defaults to false.
func (r *Request) WithCredentials() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.credentials
}

// ReadyState returns the current lifecycle state.
func (r *Request) ReadyState() ReadyState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Status returns the HTTP status code, or 0 before a response arrives.
func (r *Request) Status() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// StatusText returns the status code as a decimal string.
func (r *Request) StatusText() string {
	return strconv.Itoa(r.Status())
}

// Response returns the response body and whether one has arrived.
func (r *Request) Response() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.body == nil {
		return "", false
	}
	return *r.body, true
}

// ResponseText returns the response body, failing when none has arrived.
func (r *Request) ResponseText() (string, error) {
	body, ok := r.Response()
	if !ok {
		return "", apperrors.InvalidState(string(MemberResponseText), "response is not text")
	}
	return body, nil
}

// ResponseURL returns the URL passed to Open.
func (r *Request) ResponseURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.url
}

// GetResponseHeader returns the header stored under exactly name.
func (r *Request) GetResponseHeader(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.respHeaders[name]
	return v, ok
}

// GetAllResponseHeaders returns "name: value" lines joined by "\n", sorted
// by name.
func (r *Request) GetAllResponseHeaders() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.respHeaders))
	for name := range r.respHeaders {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = name + ": " + r.respHeaders[name]
	}
	return strings.Join(lines, "\n")
}

// Done returns a channel closed when the current send reaches Done.
func (r *Request) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Wait blocks until the current send reaches Done or ctx ends.
func (r *Request) Wait(ctx context.Context) error {
	select {
	case <-r.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Abort is not implemented.
func (r *Request) Abort() error {
	return unsupported(MemberAbort)
}

// OverrideMimeType is not implemented.
func (r *Request) OverrideMimeType(string) error {
	return unsupported(MemberOverrideMimeType)
}

// Upload is not implemented.
func (r *Request) Upload() (any, error) {
	return nil, unsupported(MemberUpload)
}

// ResponseXML is not implemented.
func (r *Request) ResponseXML() (any, error) {
	return nil, unsupported(MemberResponseXML)
}

// AddEventListener registers h for events of type t. Listeners run in
// registration order.
func (r *Request) AddEventListener(t EventType, h Handler) ListenerID {
	if h == nil {
		return 0
	}
	return r.events.add(t, h)
}

// RemoveEventListener unregisters a listener. It reports whether id was
// registered.
func (r *Request) RemoveEventListener(id ListenerID) bool {
	return r.events.remove(id)
}

// SetHandler fills the single handler slot for t; nil clears it. Every
// event type has a slot.
func (r *Request) SetHandler(t EventType, h Handler) error {
	return r.events.setSlot(t, h)
}

func (r *Request) OnAbort(h Handler)            { _ = r.SetHandler(EventAbort, h) }
func (r *Request) OnError(h Handler)            { _ = r.SetHandler(EventError, h) }
func (r *Request) OnLoad(h Handler)             { _ = r.SetHandler(EventLoad, h) }
func (r *Request) OnLoadEnd(h Handler)          { _ = r.SetHandler(EventLoadEnd, h) }
func (r *Request) OnLoadStart(h Handler)        { _ = r.SetHandler(EventLoadStart, h) }
func (r *Request) OnProgress(h Handler)         { _ = r.SetHandler(EventProgress, h) }
func (r *Request) OnTimeout(h Handler)          { _ = r.SetHandler(EventTimeout, h) }
func (r *Request) OnReadyStateChange(h Handler) { _ = r.SetHandler(EventReadyStateChange, h) }

// stateReason describes why a configure call is rejected. Callers hold mu.
func (r *Request) stateReason() string {
	if r.sending {
		return "a send is in flight"
	}
	return fmt.Sprintf("ready state is %s, want %s", r.state, Opened)
}

func (r *Request) emit(ev Event) {
	ev.Time = time.Now()
	ev.RequestID = r.id
	r.events.dispatch(ev)
}
