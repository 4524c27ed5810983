package xhr

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/xhrkit/httpclient"
	"github.com/kbukum/xhrkit/logger"
)

// fakeTransport records calls and returns a canned result. When release is
// non-nil, Do blocks until it is closed.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []httpclient.Request
	resp    *httpclient.Response
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeTransport) Do(_ context.Context, req httpclient.Request) (*httpclient.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.resp, f.err
}

func (f *fakeTransport) Calls() []httpclient.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]httpclient.Request, len(f.calls))
	copy(out, f.calls)
	return out
}

func okTransport(status int, text string, headers map[string]string) *fakeTransport {
	return &fakeTransport{resp: &httpclient.Response{StatusCode: status, Headers: headers, Body: []byte(text), Text: text}}
}

// blockingTransport returns a transport whose Do waits for release.
func blockingTransport() *fakeTransport {
	f := okTransport(200, "ok", nil)
	f.started = make(chan struct{}, 1)
	f.release = make(chan struct{})
	return f
}

func newTestRequest(t Transport, opts ...Option) *Request {
	base := []Option{WithTransport(t), WithLogger(logger.NewNop()), WithMetrics(nil)}
	return New(append(base, opts...)...)
}

// seen is the comparable projection of an Event.
type seen struct {
	Type             EventType
	ReadyState       ReadyState
	LengthComputable bool
	Loaded           int64
	Total            int64
	HasErr           bool
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

// record subscribes to every event type of r.
func record(r *Request) *recorder {
	rec := &recorder{}
	for _, typ := range slotTypes {
		r.AddEventListener(typ, func(ev Event) {
			rec.mu.Lock()
			rec.events = append(rec.events, ev)
			rec.mu.Unlock()
		})
	}
	return rec
}

func (rec *recorder) Events() []Event {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]Event, len(rec.events))
	copy(out, rec.events)
	return out
}

func (rec *recorder) Seen() []seen {
	var out []seen
	for _, ev := range rec.Events() {
		out = append(out, seen{
			Type:             ev.Type,
			ReadyState:       ev.ReadyState,
			LengthComputable: ev.LengthComputable,
			Loaded:           ev.Loaded,
			Total:            ev.Total,
			HasErr:           ev.Err != nil,
		})
	}
	return out
}

func (rec *recorder) States() []ReadyState {
	var out []ReadyState
	for _, ev := range rec.Events() {
		if ev.Type == EventReadyStateChange {
			out = append(out, ev.ReadyState)
		}
	}
	return out
}

func (rec *recorder) Count(typ EventType) int {
	n := 0
	for _, ev := range rec.Events() {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func waitDone(t *testing.T, r *Request) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Wait(ctx); err != nil {
		t.Fatalf("request did not reach Done: %v", err)
	}
}
