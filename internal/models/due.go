package models

import "time"

// RecurrenceType describes how a due date repeats
type RecurrenceType string

const (
	RecurrenceNone   RecurrenceType = "none"
	RecurrenceMinute RecurrenceType = "minute"
	RecurrenceHour   RecurrenceType = "hour"
	RecurrenceDay    RecurrenceType = "day"
	RecurrenceWeek   RecurrenceType = "week"
	RecurrenceMonth  RecurrenceType = "month"
	RecurrenceYear   RecurrenceType = "year"
)

// Due is the structured due-date payload attached to an item.
// Date holds either a bare date (2006-01-02) or a full RFC 3339 datetime.
type Due struct {
	Date               string         `json:"date"`
	Timezone           string         `json:"timezone,omitempty"`
	Recurrence         RecurrenceType `json:"recurrence,omitempty"`
	RecurrenceInterval int            `json:"recurrence_interval,omitempty"`
	RecurrenceCount    int            `json:"recurrence_count,omitempty"`
	RecurrenceEnd      string         `json:"recurrence_end,omitempty"`
	IsRecurring        bool           `json:"is_recurring,omitempty"`
	RecurrenceSupport  bool           `json:"recurrence_supported,omitempty"`
}

// dueLayouts are tried in order when parsing the Date field
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time parses the due date in the stored timezone, falling back to the
// system timezone when none is set. Returns the zero time if Date is
// unparseable.
func (d *Due) Time() time.Time {
	loc := time.Local
	if d.Timezone != "" {
		if l, err := time.LoadLocation(d.Timezone); err == nil {
			loc = l
		}
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, d.Date, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// HasTime reports whether the due date carries a time-of-day component
func (d *Due) HasTime() bool {
	_, err := time.Parse("2006-01-02", d.Date)
	return err != nil
}

// sameDay compares two instants at calendar-day granularity in t's location
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsToday reports whether the due date falls on today's calendar day
func (d *Due) IsToday(now time.Time) bool {
	t := d.Time()
	if t.IsZero() {
		return false
	}
	return sameDay(t, now.In(t.Location()))
}

// IsOverdue reports whether the due date is on a calendar day strictly
// before today. An item due earlier today is not overdue.
func (d *Due) IsOverdue(now time.Time) bool {
	t := d.Time()
	if t.IsZero() {
		return false
	}
	local := now.In(t.Location())
	if sameDay(t, local) {
		return false
	}
	return t.Before(local)
}

// IsFuture reports whether the due date is on a calendar day after today
func (d *Due) IsFuture(now time.Time) bool {
	t := d.Time()
	if t.IsZero() {
		return false
	}
	local := now.In(t.Location())
	if sameDay(t, local) {
		return false
	}
	return t.After(local)
}
