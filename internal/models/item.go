package models

import "time"

// Item represents a single task. An item with a nil ProjectID lives in the
// inbox; SectionID and ParentID are likewise optional.
type Item struct {
	ID          string
	Content     string
	Description string
	Checked     bool
	Pinned      bool
	Priority    Priority
	ProjectID   *string
	SectionID   *string
	ParentID    *string
	Due         *Due
	Labels      []*Label
	AddedAt     time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	ChildOrder  int
	DayOrder    int
	IsDeleted   bool
	Collapsed   bool
	ExtraData   string // opaque payload, stored verbatim
	ItemType    string
}

// IsInbox reports whether the item belongs to the inbox.
// Absence of a project id is the canonical membership test.
func (i *Item) IsInbox() bool {
	return i.ProjectID == nil
}

// HasParent reports whether the item is a subtask.
func (i *Item) HasParent() bool {
	return i.ParentID != nil
}

// DueToday reports whether the item has a due date on today's calendar day.
func (i *Item) DueToday(now time.Time) bool {
	return i.Due != nil && i.Due.IsToday(now)
}

// Scheduled reports whether the item is due on a future calendar day.
func (i *Item) Scheduled(now time.Time) bool {
	return i.Due != nil && i.Due.IsFuture(now)
}

// Overdue reports whether the item's due date has passed. Same-day
// comparisons use calendar-day granularity, so an item due earlier today
// is not overdue.
func (i *Item) Overdue(now time.Time) bool {
	return i.Due != nil && i.Due.IsOverdue(now)
}

// Clone returns a deep copy of the item. Cache consumers hold snapshots, so
// mutations on a clone never leak into shared state.
func (i *Item) Clone() *Item {
	clone := *i
	if i.ProjectID != nil {
		v := *i.ProjectID
		clone.ProjectID = &v
	}
	if i.SectionID != nil {
		v := *i.SectionID
		clone.SectionID = &v
	}
	if i.ParentID != nil {
		v := *i.ParentID
		clone.ParentID = &v
	}
	if i.CompletedAt != nil {
		v := *i.CompletedAt
		clone.CompletedAt = &v
	}
	if i.Due != nil {
		d := *i.Due
		clone.Due = &d
	}
	if i.Labels != nil {
		clone.Labels = make([]*Label, len(i.Labels))
		for n, l := range i.Labels {
			c := *l
			clone.Labels[n] = &c
		}
	}
	return &clone
}
