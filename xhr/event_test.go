package xhr

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/kbukum/xhrkit/errors"
)

func TestSlotHandlers(t *testing.T) {
	r := newTestRequest(okTransport(200, "abc", nil))

	var got []EventType
	note := func(ev Event) { got = append(got, ev.Type) }
	r.OnAbort(note)
	r.OnError(note)
	r.OnLoad(note)
	r.OnLoadEnd(note)
	r.OnLoadStart(note)
	r.OnProgress(note)
	r.OnTimeout(note)
	r.OnReadyStateChange(note)

	_ = r.Open("GET", "https://example.test/")
	_ = r.Send(nil)
	waitDone(t, r)

	want := []EventType{
		EventReadyStateChange, EventReadyStateChange, EventReadyStateChange,
		EventLoadStart, EventProgress, EventLoad, EventLoadEnd, EventReadyStateChange,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("slot dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestSlotReplacedAndCleared(t *testing.T) {
	r := newTestRequest(okTransport(200, "", nil))
	first, second := 0, 0
	r.OnReadyStateChange(func(Event) { first++ })
	r.OnReadyStateChange(func(Event) { second++ })

	_ = r.Open("GET", "https://example.test/")
	if first != 0 || second != 1 {
		t.Errorf("expected only the latest slot handler, got first=%d second=%d", first, second)
	}

	if err := r.SetHandler(EventReadyStateChange, nil); err != nil {
		t.Fatalf("clearing slot failed: %v", err)
	}
	_ = r.Open("GET", "https://example.test/")
	if second != 1 {
		t.Errorf("expected cleared slot, got %d calls", second)
	}
}

func TestSetHandlerUnknownType(t *testing.T) {
	r := newTestRequest(okTransport(200, "", nil))
	if err := r.SetHandler("custom", func(Event) {}); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestSlotRunsBeforeListeners(t *testing.T) {
	r := newTestRequest(okTransport(200, "", nil))
	var order []string
	r.AddEventListener(EventReadyStateChange, func(Event) { order = append(order, "listener") })
	r.OnReadyStateChange(func(Event) { order = append(order, "slot") })

	_ = r.Open("GET", "https://example.test/")
	if diff := cmp.Diff([]string{"slot", "listener"}, order); diff != "" {
		t.Errorf("dispatch order mismatch (-want +got):\n%s", diff)
	}
}

func TestAddAndRemoveEventListener(t *testing.T) {
	r := newTestRequest(okTransport(200, "", nil))
	a, b := 0, 0
	idA := r.AddEventListener(EventReadyStateChange, func(Event) { a++ })
	r.AddEventListener(EventReadyStateChange, func(Event) { b++ })

	_ = r.Open("GET", "https://example.test/")
	if !r.RemoveEventListener(idA) {
		t.Fatal("expected listener to be removed")
	}
	if r.RemoveEventListener(idA) {
		t.Error("second removal must report false")
	}
	_ = r.Open("GET", "https://example.test/")

	if a != 1 || b != 2 {
		t.Errorf("expected a=1 b=2, got a=%d b=%d", a, b)
	}
	if r.AddEventListener(EventLoad, nil) != 0 {
		t.Error("nil handler must not register")
	}
}

func TestSlotsCannotBeRemovedByID(t *testing.T) {
	r := newTestRequest(okTransport(200, "", nil))
	other := newTestRequest(okTransport(200, "", nil))
	calls := 0
	r.OnReadyStateChange(func(Event) { calls++ })
	otherID := other.AddEventListener(EventReadyStateChange, func(Event) {})

	for id := ListenerID(0); id <= ListenerID(len(slotTypes)); id++ {
		if id != otherID && r.RemoveEventListener(id) {
			t.Errorf("RemoveEventListener(%d) removed a listener that was never added", id)
		}
	}
	if r.RemoveEventListener(otherID) {
		t.Error("a listener ID from another request must not match")
	}
	_ = r.Open("GET", "https://example.test/")

	if calls != 1 {
		t.Errorf("expected slot handler to run once, got %d", calls)
	}
	if !other.RemoveEventListener(otherID) {
		t.Error("expected the owning request to remove its listener")
	}
}

func TestListenerMayRemoveItself(t *testing.T) {
	r := newTestRequest(okTransport(200, "", nil))
	calls := 0
	var id ListenerID
	id = r.AddEventListener(EventReadyStateChange, func(Event) {
		calls++
		r.RemoveEventListener(id)
	})
	_ = r.Open("GET", "https://example.test/")
	_ = r.Open("GET", "https://example.test/")
	if calls != 1 {
		t.Errorf("expected one call, got %d", calls)
	}
}

func TestHandlerMayReadRequest(t *testing.T) {
	r := newTestRequest(okTransport(200, "body", nil))
	var status int
	var text string
	r.OnLoad(func(Event) {
		status = r.Status()
		text, _ = r.ResponseText()
	})
	_ = r.Open("GET", "https://example.test/")
	_ = r.Send(nil)
	waitDone(t, r)

	if status != 200 || text != "body" {
		t.Errorf("handler saw status=%d text=%q", status, text)
	}
}
