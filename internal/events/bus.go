package events

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// historyCap bounds the diagnostic event history; oldest entries are
	// evicted first
	historyCap = 100

	// subscriberBuffer is the per-subscriber send queue size
	subscriberBuffer = 64
)

// Bus is an in-process broadcast channel for change notifications.
// Publish is fire-and-forget and non-blocking: every active subscriber
// receives every event independently, a slow consumer drops events
// rather than blocking others, and a consumer that subscribes late
// misses events published before it subscribed.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[*Subscription]bool
	history     []Event
	sequence    atomic.Int64
	closed      bool
}

// Subscription is one consumer's handle on the bus. Events arrive on C;
// Close detaches the subscription and closes the channel.
type Subscription struct {
	C chan Event

	bus    *Bus
	filter func(Event) bool
	once   sync.Once
}

// Close detaches the subscription from the bus
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subscribers, s)
		s.bus.mu.Unlock()
		close(s.C)
	})
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[*Subscription]bool),
	}
}

// Subscribe registers a new consumer receiving every published event
func (b *Bus) Subscribe() *Subscription {
	return b.subscribe(nil)
}

// SubscribeEntity registers a consumer receiving only events whose
// EntityID matches the given id
func (b *Bus) SubscribeEntity(entityID string) *Subscription {
	return b.subscribe(func(e Event) bool {
		return e.EntityID == entityID
	})
}

// SubscribeTypes registers a consumer receiving only the given event types
func (b *Bus) SubscribeTypes(types ...EventType) *Subscription {
	wanted := make(map[EventType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	return b.subscribe(func(e Event) bool {
		return wanted[e.Type]
	})
}

func (b *Bus) subscribe(filter func(Event) bool) *Subscription {
	sub := &Subscription{
		C:      make(chan Event, subscriberBuffer),
		bus:    b,
		filter: filter,
	}

	b.mu.Lock()
	closed := b.closed
	if !closed {
		b.subscribers[sub] = true
	}
	b.mu.Unlock()

	if closed {
		// A subscription on a closed bus never receives events
		sub.once.Do(func() { close(sub.C) })
	}
	return sub
}

// Publish broadcasts an event to all current subscribers. The sequence
// id and timestamp are assigned here; the caller only supplies type and
// entity identifiers.
func (b *Bus) Publish(event Event) {
	event.SequenceID = b.sequence.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}

	// Bounded FIFO history for diagnostics
	b.history = append(b.history, event)
	if len(b.history) > historyCap {
		b.history = b.history[len(b.history)-historyCap:]
	}

	for sub := range b.subscribers {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		// Non-blocking send: if the subscriber is slow, drop
		select {
		case sub.C <- event:
		default:
			slog.Debug("subscriber queue full, event dropped",
				"event_type", event.Type,
				"entity_id", event.EntityID)
		}
	}
	b.mu.Unlock()
}

// History returns a snapshot of the retained event history,
// oldest first
func (b *Bus) History() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	snapshot := make([]Event, len(b.history))
	copy(snapshot, b.history)
	return snapshot
}

// SubscriberCount reports the number of active subscriptions
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close detaches all subscribers and rejects further publishes
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*Subscription, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	// Each subscription's Once acquires the bus lock, so it must fire
	// after the lock is released or a concurrent Subscription.Close
	// wedges both goroutines
	for _, sub := range subs {
		sub.Close()
	}
}
