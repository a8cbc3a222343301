package events

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// receive pulls one event with a timeout so a broken bus fails fast
// instead of hanging the test
func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case event := <-sub.C:
		return event
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
		return Event{}
	}
}

func TestPublishBroadcastsToAllSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	first := bus.Subscribe()
	second := bus.Subscribe()

	bus.Publish(Event{Type: EventItemCreated, EntityID: "a"})

	for _, sub := range []*Subscription{first, second} {
		event := receive(t, sub)
		if event.Type != EventItemCreated || event.EntityID != "a" {
			t.Errorf("Unexpected event %+v", event)
		}
	}
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	bus.Publish(Event{Type: EventItemCreated, EntityID: "early"})

	sub := bus.Subscribe()
	bus.Publish(Event{Type: EventItemUpdated, EntityID: "late"})

	event := receive(t, sub)
	if event.EntityID != "late" {
		t.Errorf("Late subscriber must only see events after subscribing, got %+v", event)
	}
}

func TestSlowConsumerDoesNotBlockPublish(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	slow := bus.Subscribe()
	fast := bus.Subscribe()

	// Overflow the slow subscriber's queue; publishes must not block
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*2; i++ {
			bus.Publish(Event{Type: EventItemUpdated, EntityID: fmt.Sprintf("item-%d", i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow consumer")
	}

	// The fast consumer drains everything it was able to buffer
	drained := 0
	for len(fast.C) > 0 {
		<-fast.C
		drained++
	}
	if drained == 0 {
		t.Error("Fast consumer received no events")
	}
	_ = slow
}

func TestSequenceIDsAreMonotonic(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe()
	for i := 0; i < 5; i++ {
		bus.Publish(Event{Type: EventItemCreated, EntityID: "x"})
	}

	var last int64
	for i := 0; i < 5; i++ {
		event := receive(t, sub)
		if event.SequenceID <= last {
			t.Errorf("Sequence went from %d to %d", last, event.SequenceID)
		}
		last = event.SequenceID
	}
}

func TestHistoryEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	for i := 0; i < historyCap+10; i++ {
		bus.Publish(Event{Type: EventItemCreated, EntityID: fmt.Sprintf("item-%d", i)})
	}

	history := bus.History()
	if len(history) != historyCap {
		t.Fatalf("Expected history of %d events, got %d", historyCap, len(history))
	}
	if history[0].EntityID != "item-10" {
		t.Errorf("Expected oldest retained event to be item-10, got %s", history[0].EntityID)
	}
	if history[len(history)-1].EntityID != fmt.Sprintf("item-%d", historyCap+9) {
		t.Errorf("Unexpected newest event %s", history[len(history)-1].EntityID)
	}
}

func TestSubscribeEntityFilters(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	sub := bus.SubscribeEntity("watched")

	bus.Publish(Event{Type: EventItemUpdated, EntityID: "other"})
	bus.Publish(Event{Type: EventItemUpdated, EntityID: "watched"})

	event := receive(t, sub)
	if event.EntityID != "watched" {
		t.Errorf("Filtered subscription received %q", event.EntityID)
	}
	if len(sub.C) != 0 {
		t.Error("Filtered subscription must not queue non-matching events")
	}
}

func TestSubscribeTypesFilters(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	sub := bus.SubscribeTypes(EventBulkUpdate)

	bus.Publish(Event{Type: EventItemCreated, EntityID: "a"})
	bus.Publish(Event{Type: EventBulkUpdate})

	event := receive(t, sub)
	if event.Type != EventBulkUpdate {
		t.Errorf("Expected bulk update, got %s", event.Type)
	}
}

func TestSubscriptionClose(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe()
	if bus.SubscriberCount() != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", bus.SubscriberCount())
	}

	sub.Close()
	if bus.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers after close, got %d", bus.SubscriberCount())
	}

	// Closing twice must not panic
	sub.Close()

	// The channel is closed, so receives terminate
	if _, ok := <-sub.C; ok {
		t.Error("Expected closed channel after subscription close")
	}
}

func TestBusCloseDetachesSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	sub := bus.Subscribe()

	bus.Close()

	if _, ok := <-sub.C; ok {
		t.Error("Expected subscriber channel closed when bus closes")
	}

	// Publishing after close is a no-op, not a panic
	bus.Publish(Event{Type: EventItemCreated})

	// Subscribing after close yields a dead subscription
	dead := bus.Subscribe()
	if _, ok := <-dead.C; ok {
		t.Error("Expected dead subscription on closed bus")
	}
}

func TestBusCloseRacesSubscriptionClose(t *testing.T) {
	t.Parallel()

	// Bus teardown and subscribers unsubscribing at the same moment must
	// never wedge each other, whichever side wins each subscription
	for i := 0; i < 200; i++ {
		bus := NewBus()
		subs := make([]*Subscription, 50)
		for j := range subs {
			subs[j] = bus.Subscribe()
		}

		done := make(chan struct{})
		go func() {
			var wg sync.WaitGroup
			for _, sub := range subs {
				wg.Add(1)
				go func(s *Subscription) {
					defer wg.Done()
					s.Close()
				}(sub)
			}
			wg.Wait()
			close(done)
		}()

		closed := make(chan struct{})
		go func() {
			bus.Close()
			close(closed)
		}()

		deadline := time.After(5 * time.Second)
		for _, ch := range []chan struct{}{done, closed} {
			select {
			case <-ch:
			case <-deadline:
				t.Fatal("Bus close and subscription close wedged each other")
			}
		}
		if bus.SubscriberCount() != 0 {
			t.Fatalf("Expected no subscribers after teardown, got %d", bus.SubscriberCount())
		}
	}
}

func TestNilPublisherIsSkipped(t *testing.T) {
	t.Parallel()

	// Must not panic
	Publish(nil, Event{Type: EventItemCreated})
	PublishEntity(nil, EventItemDeleted, "x")
}
