// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/retropoll/models"
)

// subscriberBuffer is the per-subscriber queue depth. Publishes to a
// subscriber whose buffer is full are dropped for that subscriber only;
// a client that fell behind recovers via the snapshot on its next connect.
const subscriberBuffer = 16

// Subscriber is one connected viewer's receive side.
type Subscriber struct {
	ID string
	C  <-chan models.StateMessage

	ch      chan models.StateMessage
	dropped int
}

// Hub fans broadcast messages out to a dynamic set of subscribers.
// Each subscriber has an independently buffered channel so a slow
// consumer never blocks publishing to the others.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*Subscriber
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]*Subscriber)}
}

// Subscribe registers a new subscriber and delivers first as its initial
// message, guaranteeing a late joiner never waits for the next mutation.
func (h *Hub) Subscribe(first models.StateMessage) *Subscriber {
	sub := &Subscriber{
		ID: uuid.NewString(),
		ch: make(chan models.StateMessage, subscriberBuffer),
	}
	sub.C = sub.ch
	sub.ch <- first

	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	h.mu.Unlock()

	slog.Debug("subscriber attached", "subscriber_id", sub.ID)
	return sub
}

// Unsubscribe detaches a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[sub.ID]; !ok {
		return
	}
	delete(h.subscribers, sub.ID)
	close(sub.ch)
	slog.Debug("subscriber detached", "subscriber_id", sub.ID, "dropped", sub.dropped)
}

// Publish sends msg to every current subscriber without blocking.
// Delivery order per subscriber matches publish order; there is no
// delivery guarantee across a drop or disconnect - reconnecting clients
// receive a fresh snapshot instead of replayed deltas.
func (h *Hub) Publish(msg models.StateMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subscribers {
		select {
		case sub.ch <- msg:
		default:
			sub.dropped++
			slog.Warn("dropping message for slow subscriber", "subscriber_id", sub.ID)
		}
	}
}

// Len returns the number of attached subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
