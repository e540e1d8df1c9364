package events

import (
	"errors"
	"testing"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventBookingReceived, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	payload := SubmissionPayload{ID: "abc", FullName: "Asha", ServiceKey: "wedding_day"}
	if err := bus.PublishJSON(EventBookingReceived, payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if received.Type != EventBookingReceived {
		t.Errorf("expected type %s, got %s", EventBookingReceived, received.Type)
	}

	var decoded SubmissionPayload
	if err := received.Decode(&decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.ID != "abc" || decoded.ServiceKey != "wedding_day" {
		t.Errorf("unexpected payload %+v", decoded)
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return nil })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })
	bus.Subscribe("other", func(_ *Event) error { t.Error("wrong subscriber called"); return nil })

	bus.Publish(&Event{Type: "event"})

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both handlers to be called once, got %d and %d", count1, count2)
	}
}

func TestEventBusHandlerErrors(t *testing.T) {
	bus := NewEventBus()
	var reported error
	var laterCalled bool

	bus.OnError(func(_ *Event, err error) { reported = err })
	bus.Subscribe("event", func(_ *Event) error { return errors.New("sheet offline") })
	bus.Subscribe("event", func(_ *Event) error { laterCalled = true; return nil })

	bus.Publish(&Event{Type: "event"})

	if reported == nil || reported.Error() != "sheet offline" {
		t.Errorf("expected handler error to be reported, got %v", reported)
	}
	if !laterCalled {
		t.Errorf("a failing handler must not stop later handlers")
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(&Event{Type: "unknown"})
	if err := bus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("PublishJSON failed: %v", err)
	}

	var nilBus *EventBus
	if err := nilBus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("nil bus should ignore events, got %v", err)
	}
}

func TestNewJSONEvent(t *testing.T) {
	event, err := NewJSONEvent(EventInquiryReceived, SubmissionPayload{ID: "123", Subject: "Pricing"})
	if err != nil {
		t.Fatalf("NewJSONEvent failed: %v", err)
	}

	if event.Type != EventInquiryReceived {
		t.Errorf("expected %s, got %s", EventInquiryReceived, event.Type)
	}
	if event.CreatedAt.IsZero() {
		t.Errorf("expected CreatedAt to be set")
	}

	var decoded SubmissionPayload
	if err := event.Decode(&decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if decoded.Subject != "Pricing" {
		t.Errorf("expected subject Pricing, got %s", decoded.Subject)
	}
}

func TestNewJSONEventUnencodable(t *testing.T) {
	if _, err := NewJSONEvent("bad", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}
