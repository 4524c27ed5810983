package xhr

import (
	stderrors "errors"
	"testing"
	"time"
)

func TestEventCloudEvent(t *testing.T) {
	ev := Event{
		Type:             EventLoad,
		ReadyState:       Loading,
		LengthComputable: true,
		Loaded:           5,
		Total:            5,
		Time:             time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		RequestID:        "req-1",
	}

	ce, err := ev.CloudEvent("xhrget")
	if err != nil {
		t.Fatalf("CloudEvent failed: %v", err)
	}
	if ce.Type() != CloudEventTypePrefix+"load" {
		t.Errorf("unexpected type %q", ce.Type())
	}
	if ce.Source() != "xhrget" || ce.Subject() != "req-1" {
		t.Errorf("unexpected source/subject %q/%q", ce.Source(), ce.Subject())
	}
	if !ce.Time().Equal(ev.Time) {
		t.Errorf("unexpected time %v", ce.Time())
	}

	var payload eventPayload
	if err := ce.DataAs(&payload); err != nil {
		t.Fatalf("DataAs failed: %v", err)
	}
	if payload.ReadyState != "LOADING" || payload.Loaded != 5 || payload.Total != 5 || !payload.LengthComputable {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestEventCloudEventCarriesError(t *testing.T) {
	ev := Event{Type: EventError, ReadyState: Loading, Err: stderrors.New("refused"), Time: time.Now()}
	ce, err := ev.CloudEvent("xhrget")
	if err != nil {
		t.Fatalf("CloudEvent failed: %v", err)
	}
	var payload eventPayload
	if err := ce.DataAs(&payload); err != nil {
		t.Fatalf("DataAs failed: %v", err)
	}
	if payload.Error != "refused" {
		t.Errorf("expected error text, got %q", payload.Error)
	}
}

func TestEventCloudEventRequiresSource(t *testing.T) {
	if _, err := (Event{Type: EventLoad}).CloudEvent(""); err == nil {
		t.Error("expected validation error without source")
	}
}
