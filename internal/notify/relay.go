package notify

import (
	"context"
	"sync"
)

// Message is one notification fanned out to a user's live subscribers.
type Message struct {
	UserID       string
	Notification Notification
}

// Relay is the in-process publish/subscribe fan-out behind the inbox.
// Subscribers receive on buffered channels; slow consumers drop messages
// rather than blocking the publisher.
type Relay struct {
	mu          sync.RWMutex
	subscribers map[string]map[int64]*relaySubscriber
	nextID      int64
	bufferSize  int
}

type relaySubscriber struct {
	id     int64
	stream chan Message
}

// NewRelay constructs an empty relay.
func NewRelay() *Relay {
	return &Relay{
		subscribers: make(map[string]map[int64]*relaySubscriber),
		bufferSize:  16,
	}
}

// Subscribe registers a listener for one user's notifications. The returned
// cancel func detaches the listener; cancelling the context does the same.
func (r *Relay) Subscribe(ctx context.Context, userID string) (<-chan Message, func()) {
	if userID == "" {
		ch := make(chan Message)
		close(ch)
		return ch, func() {}
	}
	subscriber := &relaySubscriber{
		id:     r.nextSequence(),
		stream: make(chan Message, r.bufferSize),
	}
	r.register(userID, subscriber)
	cleanup := func() {
		r.unregister(userID, subscriber.id)
	}
	go func() {
		<-ctx.Done()
		cleanup()
	}()
	return subscriber.stream, cleanup
}

// Publish fans the message out to the user's subscribers without blocking.
func (r *Relay) Publish(message Message) {
	if message.UserID == "" {
		return
	}
	r.mu.RLock()
	subscribers := r.subscribers[message.UserID]
	if len(subscribers) == 0 {
		r.mu.RUnlock()
		return
	}
	copies := make([]*relaySubscriber, 0, len(subscribers))
	for _, subscriber := range subscribers {
		copies = append(copies, subscriber)
	}
	r.mu.RUnlock()
	for _, subscriber := range copies {
		select {
		case subscriber.stream <- message:
		default:
		}
	}
}

func (r *Relay) nextSequence() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID
}

func (r *Relay) register(userID string, subscriber *relaySubscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[userID]; !ok {
		r.subscribers[userID] = make(map[int64]*relaySubscriber)
	}
	r.subscribers[userID][subscriber.id] = subscriber
}

func (r *Relay) unregister(userID string, subscriberID int64) {
	r.mu.Lock()
	subscribers := r.subscribers[userID]
	if subscribers != nil {
		delete(subscribers, subscriberID)
		if len(subscribers) == 0 {
			delete(r.subscribers, userID)
		}
	}
	r.mu.Unlock()
}
