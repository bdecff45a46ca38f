package notify

import (
	"context"
	"testing"
	"time"
)

func TestRelayDeliversToSubscriber(t *testing.T) {
	relay := NewRelay()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := relay.Subscribe(ctx, "user-1")
	defer cleanup()

	relay.Publish(Message{UserID: "user-1", Notification: Notification{ID: "n-1", Title: "hello"}})

	select {
	case message := <-stream:
		if message.Notification.ID != "n-1" {
			t.Fatalf("unexpected notification id %s", message.Notification.ID)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected delivery within a second")
	}
}

func TestRelayIsolatesUsers(t *testing.T) {
	relay := NewRelay()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := relay.Subscribe(ctx, "user-2")
	defer cleanup()

	relay.Publish(Message{UserID: "user-1", Notification: Notification{ID: "n-1"}})

	select {
	case message := <-stream:
		t.Fatalf("expected no delivery for other user, got %#v", message)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRelayDropsMessagesWhenBufferFull(t *testing.T) {
	relay := NewRelay()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := relay.Subscribe(ctx, "user-1")
	defer cleanup()

	for i := 0; i < 64; i++ {
		relay.Publish(Message{UserID: "user-1", Notification: Notification{ID: "n"}})
	}

	drained := 0
	for {
		select {
		case <-stream:
			drained++
			continue
		default:
		}
		break
	}
	if drained == 0 || drained > 16 {
		t.Fatalf("expected buffered delivery capped at buffer size, drained %d", drained)
	}
}

func TestRelayUnsubscribeStopsDelivery(t *testing.T) {
	relay := NewRelay()
	ctx, cancel := context.WithCancel(context.Background())

	stream, cleanup := relay.Subscribe(ctx, "user-1")
	cleanup()
	cancel()

	relay.Publish(Message{UserID: "user-1", Notification: Notification{ID: "n-1"}})

	select {
	case _, open := <-stream:
		if open {
			t.Fatalf("expected no delivery after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRelaySubscribeWithoutUserReturnsClosedStream(t *testing.T) {
	relay := NewRelay()

	stream, cleanup := relay.Subscribe(context.Background(), "")
	defer cleanup()

	if _, open := <-stream; open {
		t.Fatalf("expected closed stream for empty user id")
	}
}
