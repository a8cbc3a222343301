package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

// Fine-grained change notifications. Payloads carry identifiers only,
// never full records: consumers re-fetch current state from the store
// or cache, so stale snapshots cannot propagate.
const (
	EventItemCreated EventType = "item_created"
	EventItemUpdated EventType = "item_updated"
	EventItemDeleted EventType = "item_deleted"

	EventProjectCreated EventType = "project_created"
	EventProjectUpdated EventType = "project_updated"
	EventProjectDeleted EventType = "project_deleted"

	EventSectionCreated EventType = "section_created"
	EventSectionUpdated EventType = "section_updated"
	EventSectionDeleted EventType = "section_deleted"

	EventLabelCreated EventType = "label_created"
	EventLabelUpdated EventType = "label_updated"
	EventLabelDeleted EventType = "label_deleted"

	EventReminderCreated EventType = "reminder_created"
	EventReminderDeleted EventType = "reminder_deleted"

	// EventBulkUpdate is a coarse notification for batch operations that
	// would be too noisy to announce individually
	EventBulkUpdate EventType = "bulk_update"

	// EventItemsPositionUpdated announces a reorder within a project or
	// section scope
	EventItemsPositionUpdated EventType = "items_position_updated"
)

// Event represents a single change notification
type Event struct {
	Type       EventType
	EntityID   string // id of the created/updated/deleted entity
	ProjectID  string // scope for position updates and project-filtered views
	SectionID  string // scope for position updates
	Timestamp  time.Time
	SequenceID int64 // monotonically increasing, assigned on publish
}
