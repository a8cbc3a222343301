package events

// Publish sends an event through pub if it is non-nil. Services hold a
// Publisher that may be absent (e.g. in tests), and publishing is always
// fire-and-forget, so a nil publisher is silently skipped.
func Publish(pub Publisher, event Event) {
	if pub == nil {
		return
	}
	pub.Publish(event)
}

// PublishEntity is shorthand for the common created/updated/deleted case
func PublishEntity(pub Publisher, eventType EventType, entityID string) {
	Publish(pub, Event{Type: eventType, EntityID: entityID})
}
