package models

import "time"

// ReminderType distinguishes fixed-datetime reminders from offsets
// relative to the item's due date
type ReminderType string

const (
	ReminderAbsolute ReminderType = "absolute"
	ReminderRelative ReminderType = "relative"
)

// Reminder represents a notification trigger attached to an item
type Reminder struct {
	ID           string
	ItemID       string
	Type         ReminderType
	Due          *Due // set for absolute reminders
	MinuteOffset int  // minutes before the item due date, for relative reminders
	NotifyUID    string
	Service      string
	CreatedAt    time.Time
}

// FireAt resolves the instant the reminder should fire. Relative reminders
// resolve against the owning item's due date; itemDue may be nil, in which
// case the zero time is returned.
func (r *Reminder) FireAt(itemDue *Due) time.Time {
	switch r.Type {
	case ReminderAbsolute:
		if r.Due == nil {
			return time.Time{}
		}
		return r.Due.Time()
	case ReminderRelative:
		if itemDue == nil {
			return time.Time{}
		}
		t := itemDue.Time()
		if t.IsZero() {
			return t
		}
		return t.Add(-time.Duration(r.MinuteOffset) * time.Minute)
	}
	return time.Time{}
}
