package events

// Publisher defines the publishing half of the bus. Services depend on
// this interface so tests can observe or discard events without a full
// bus.
type Publisher interface {
	// Publish broadcasts an event to all current subscribers
	Publish(event Event)
}

// Compile-time verification that *Bus implements Publisher
var _ Publisher = (*Bus)(nil)
