package xhr

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"runtime/debug"
	"unicode/utf8"

	apperrors "github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/httpclient"
	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/observability"
)

// sendParams is the request snapshot taken when Send is accepted.
type sendParams struct {
	method  string
	url     string
	headers map[string]string
	body    string
	done    chan struct{}
}

// Send starts the request and returns without waiting for it. body must be
// nil, a string, or a *string; nil is sent as an empty body.
//
// Send fails synchronously, without changing state or touching the
// transport, when the method or URL is unset (MISSING_FIELD), the request
// is not Opened or already sending (INVALID_STATE), or the body is not
// text (UNSUPPORTED_BODY).
func (r *Request) Send(body any) error {
	r.mu.Lock()
	if r.method == "" {
		r.mu.Unlock()
		return apperrors.MissingField("method")
	}
	if r.url == "" {
		r.mu.Unlock()
		return apperrors.MissingField("url")
	}
	if r.state != Opened || r.sending {
		reason := r.stateReason()
		r.mu.Unlock()
		return apperrors.InvalidState(string(MemberSend), reason)
	}
	text, err := bodyText(body)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	r.sending = true
	p := sendParams{
		method:  r.method,
		url:     r.url,
		headers: maps.Clone(r.headers),
		body:    text,
		done:    r.done,
	}
	r.mu.Unlock()

	r.log.Debug("send", logger.Fields(
		logger.FieldMethod, p.method,
		logger.FieldURL, p.url,
		"body_bytes", len(p.body),
	))

	go r.run(p)
	return nil
}

func bodyText(body any) (string, error) {
	switch b := body.(type) {
	case nil:
		return "", nil
	case string:
		return b, nil
	case *string:
		if b == nil {
			return "", nil
		}
		return *b, nil
	default:
		return "", apperrors.UnsupportedBody(fmt.Sprintf("%T", body))
	}
}

// run performs the transport call and drives the request to Done.
func (r *Request) run(p sendParams) {
	ctx, op := observability.StartOperation(context.WithoutCancel(r.baseCtx), r.id, p.method, p.url, r.metrics)

	outcome := observability.OutcomeError
	var failure error
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("transport panicked", logger.Fields("stack", string(debug.Stack())))
			failure = apperrors.Internal(fmt.Errorf("transport panicked: %v", rec))
			outcome = observability.OutcomeError
			r.fail(failure)
		}
		op.End(ctx, outcome, failure)
		r.finish(p.done)
	}()

	transport, err := r.provider(ctx)
	if err == nil && transport == nil {
		err = errors.New("provider returned no transport")
	}
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrCodeTransportUnavailable) {
			err = apperrors.TransportUnavailable(err)
		}
		failure = err
		r.fail(err)
		return
	}

	r.transition(HeadersReceived)
	r.transition(Loading)
	r.emit(Event{Type: EventLoadStart, ReadyState: Loading, LengthComputable: true})

	resp, err := transport.Do(ctx, httpclient.Request{
		Method:       p.method,
		URL:          p.url,
		Headers:      p.headers,
		Body:         p.body,
		ResponseType: httpclient.ResponseTypeText,
	})
	if err == nil && resp == nil {
		err = apperrors.Internal(errors.New("transport returned no response"))
	}
	if err != nil {
		failure = err
		r.fail(err)
		return
	}

	text := resp.Text
	r.mu.Lock()
	r.body = &text
	r.status = resp.StatusCode
	r.respHeaders = maps.Clone(resp.Headers)
	if r.respHeaders == nil {
		r.respHeaders = make(map[string]string)
	}
	r.mu.Unlock()
	op.SetStatus(resp.StatusCode)

	n := int64(utf8.RuneCountInString(text))
	r.log.Debug("response", logger.Fields(
		logger.FieldURL, p.url,
		logger.FieldStatus, resp.StatusCode,
		"length", n,
	))

	for _, t := range []EventType{EventProgress, EventLoad, EventLoadEnd} {
		r.emit(Event{Type: t, ReadyState: Loading, LengthComputable: true, Loaded: n, Total: n})
	}
	outcome = observability.OutcomeLoad
}

func (r *Request) transition(s ReadyState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
	r.log.Debug("ready state changed", logger.Fields(logger.FieldReadyState, s.String()))
	r.emit(Event{Type: EventReadyStateChange, ReadyState: s})
}

func (r *Request) fail(err error) {
	r.log.Error("request failed", logger.Fields(logger.FieldError, err.Error()))
	r.emit(Event{Type: EventError, ReadyState: r.ReadyState(), Err: err})
}

// finish moves to Done and then releases waiters on done. A handler may
// reopen the request from the Done notification; Open allocates a fresh
// channel for that attempt.
func (r *Request) finish(done chan struct{}) {
	r.mu.Lock()
	r.state = Done
	r.sending = false
	r.mu.Unlock()
	r.log.Debug("ready state changed", logger.Fields(logger.FieldReadyState, Done.String()))
	r.emit(Event{Type: EventReadyStateChange, ReadyState: Done})
	close(done)
}
