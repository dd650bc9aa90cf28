package bus

import (
	"context"
	"testing"
	"time"
)

func TestPublishReachesSubscriber(t *testing.T) {
	b := New()
	t.Cleanup(b.Close)

	events, unsubscribe := b.SubscribeEvents(context.Background(), 1)
	t.Cleanup(unsubscribe)

	if ok := b.PublishEvent(context.Background(), Event{Type: EventDispatchReceived, MessageID: "msg-1"}); !ok {
		t.Fatal("expected publish to succeed")
	}

	select {
	case event := <-events:
		if event.Type != EventDispatchReceived || event.MessageID != "msg-1" {
			t.Fatalf("event = %+v", event)
		}
		if event.At.IsZero() {
			t.Fatal("expected publish to stamp the event time")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	b := New()
	t.Cleanup(b.Close)

	first, unsubFirst := b.SubscribeEvents(context.Background(), 1)
	t.Cleanup(unsubFirst)
	second, unsubSecond := b.SubscribeEvents(context.Background(), 1)
	t.Cleanup(unsubSecond)

	b.PublishEvent(context.Background(), Event{Type: EventDispatchCompleted})

	for _, events := range []<-chan Event{first, second} {
		select {
		case event := <-events:
			if event.Type != EventDispatchCompleted {
				t.Fatalf("event type = %q", event.Type)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fan-out event")
		}
	}
}

func TestPublishDropsWhenSubscriberIsFull(t *testing.T) {
	b := New()
	t.Cleanup(b.Close)

	events, unsubscribe := b.SubscribeEvents(context.Background(), 1)
	t.Cleanup(unsubscribe)

	b.PublishEvent(context.Background(), Event{MessageID: "msg-1"})
	b.PublishEvent(context.Background(), Event{MessageID: "msg-2"})

	event := <-events
	if event.MessageID != "msg-1" {
		t.Fatalf("message id = %q, want msg-1", event.MessageID)
	}

	select {
	case extra := <-events:
		t.Fatalf("expected second event to be dropped, got %+v", extra)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	t.Cleanup(b.Close)

	events, unsubscribe := b.SubscribeEvents(context.Background(), 1)
	unsubscribe()

	if _, ok := <-events; ok {
		t.Fatal("expected channel to close on unsubscribe")
	}
	if ok := b.PublishEvent(context.Background(), Event{}); !ok {
		t.Fatal("publish must still succeed with no subscribers")
	}
}

func TestCloseStopsPublishing(t *testing.T) {
	b := New()

	events, _ := b.SubscribeEvents(context.Background(), 1)
	b.Close()

	if _, ok := <-events; ok {
		t.Fatal("expected subscriber channel to close with the bus")
	}
	if ok := b.PublishEvent(context.Background(), Event{}); ok {
		t.Fatal("expected publish to fail after close")
	}
}

func TestSubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	b := New()
	b.Close()

	events, unsubscribe := b.SubscribeEvents(context.Background(), 1)
	unsubscribe()

	if _, ok := <-events; ok {
		t.Fatal("expected closed channel when subscribing after close")
	}
}

func TestContextCancelUnsubscribes(t *testing.T) {
	b := New()
	t.Cleanup(b.Close)

	ctx, cancel := context.WithCancel(context.Background())
	events, _ := b.SubscribeEvents(ctx, 1)
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for cancellation to close the channel")
		}
	}
}
