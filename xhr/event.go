package xhr

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/logger"
)

// EventType names an event a Request can fire.
type EventType string

const (
	EventAbort            EventType = "abort"
	EventError            EventType = "error"
	EventLoad             EventType = "load"
	EventLoadEnd          EventType = "loadend"
	EventLoadStart        EventType = "loadstart"
	EventProgress         EventType = "progress"
	EventTimeout          EventType = "timeout"
	EventReadyStateChange EventType = "readystatechange"
)

// slotTypes are the events with a single-handler slot. abort and timeout
// are declared for listeners but never fired.
var slotTypes = []EventType{
	EventAbort, EventError, EventLoad, EventLoadEnd,
	EventLoadStart, EventProgress, EventTimeout, EventReadyStateChange,
}

// EventTypes returns every event type a Request declares.
func EventTypes() []EventType {
	out := make([]EventType, len(slotTypes))
	copy(out, slotTypes)
	return out
}

// Event is delivered to handlers. Progress fields are set on loadstart,
// progress, load and loadend; Err is set on error.
type Event struct {
	Type             EventType
	ReadyState       ReadyState
	LengthComputable bool
	Loaded           int64
	Total            int64
	Err              error
	Time             time.Time
	RequestID        string
}

// Handler receives events. Handlers run on the goroutine that fired the
// event, outside the request's lock, so they may call any Request method.
type Handler func(Event)

// ListenerID identifies a listener registered with AddEventListener. IDs
// are unique across all requests in the process; 0 is never issued.
type ListenerID uint64

// slotID marks the slot forwarders, which cannot be removed.
const slotID ListenerID = 0

var lastListenerID atomic.Uint64

type listener struct {
	id ListenerID
	fn Handler
}

// dispatcher is the single event table of a Request. Slot handlers are
// ordinary subscribers that read their slot at dispatch time.
type dispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]listener
	slots     map[EventType]Handler
	log       *logger.Logger
}

func newDispatcher(log *logger.Logger) *dispatcher {
	d := &dispatcher{
		listeners: make(map[EventType][]listener),
		slots:     make(map[EventType]Handler, len(slotTypes)),
		log:       log,
	}
	for _, t := range slotTypes {
		d.listeners[t] = append(d.listeners[t], listener{id: slotID, fn: d.slotForwarder(t)})
	}
	return d
}

func (d *dispatcher) slotForwarder(t EventType) Handler {
	return func(ev Event) {
		d.mu.RLock()
		h := d.slots[t]
		d.mu.RUnlock()
		if h != nil {
			h(ev)
		}
	}
}

func (d *dispatcher) add(t EventType, h Handler) ListenerID {
	id := ListenerID(lastListenerID.Add(1))
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[t] = append(d.listeners[t], listener{id: id, fn: h})
	return id
}

func (d *dispatcher) remove(id ListenerID) bool {
	if id == slotID {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for t, ls := range d.listeners {
		for i, l := range ls {
			if l.id == id {
				d.listeners[t] = append(ls[:i:i], ls[i+1:]...)
				return true
			}
		}
	}
	return false
}

func (d *dispatcher) setSlot(t EventType, h Handler) error {
	if !isSlot(t) {
		return apperrors.InvalidInput("event", fmt.Sprintf("%q has no handler slot", t))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if h == nil {
		delete(d.slots, t)
	} else {
		d.slots[t] = h
	}
	return nil
}

// dispatch calls every listener of ev.Type in registration order. The
// listener list is copied first so handlers may add or remove listeners.
func (d *dispatcher) dispatch(ev Event) {
	d.mu.RLock()
	ls := make([]listener, len(d.listeners[ev.Type]))
	copy(ls, d.listeners[ev.Type])
	d.mu.RUnlock()

	for _, l := range ls {
		d.call(l, ev)
	}
}

func (d *dispatcher) call(l listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("event handler panicked", logger.Fields(
				logger.FieldEvent, string(ev.Type),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			))
		}
	}()
	l.fn(ev)
}

func isSlot(t EventType) bool {
	for _, s := range slotTypes {
		if s == t {
			return true
		}
	}
	return false
}
