package cache

import (
	"time"

	"github.com/thenoetrevino/tado/internal/models"
)

// ViewKind selects one of the derived item views. Views are recomputed
// from the canonical collections on every call, so they never drift
// from the cached state.
type ViewKind int

const (
	ViewInbox ViewKind = iota
	ViewToday
	ViewScheduled
	ViewPinned
	ViewCompleted
	ViewLabels
)

// String returns the view name for logging
func (v ViewKind) String() string {
	switch v {
	case ViewInbox:
		return "inbox"
	case ViewToday:
		return "today"
	case ViewScheduled:
		return "scheduled"
	case ViewPinned:
		return "pinned"
	case ViewCompleted:
		return "completed"
	case ViewLabels:
		return "labels"
	default:
		return "unknown"
	}
}

// ItemsFor returns the items matching the given view. Every view is a
// filter over the same canonical item map; the completed view is the
// only one that includes checked items.
func (s *TodoStore) ItemsFor(view ViewKind) []*models.Item {
	s.mu.RLock()
	now := s.now()
	items := make([]*models.Item, 0)
	for _, item := range s.items {
		if matchesView(item, view, now) {
			items = append(items, item)
		}
	}
	s.mu.RUnlock()

	sortItems(items)
	return items
}

// CountFor returns the number of items in a view without materializing
// the slice. Used for the sidebar badges.
func (s *TodoStore) CountFor(view ViewKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	count := 0
	for _, item := range s.items {
		if matchesView(item, view, now) {
			count++
		}
	}
	return count
}

func matchesView(item *models.Item, view ViewKind, now time.Time) bool {
	switch view {
	case ViewInbox:
		return !item.Checked && item.IsInbox()
	case ViewToday:
		// Overdue items surface in today so they are never invisible
		return !item.Checked && (item.DueToday(now) || item.Overdue(now))
	case ViewScheduled:
		return !item.Checked && item.Scheduled(now)
	case ViewPinned:
		return !item.Checked && item.Pinned
	case ViewCompleted:
		return item.Checked
	case ViewLabels:
		return !item.Checked && len(item.Labels) > 0
	default:
		return false
	}
}

// OverdueItems returns incomplete items whose due date is on a past
// calendar day. Split out from the today view for callers that render
// the overdue group separately.
func (s *TodoStore) OverdueItems() []*models.Item {
	s.mu.RLock()
	now := s.now()
	items := make([]*models.Item, 0)
	for _, item := range s.items {
		if !item.Checked && item.Overdue(now) {
			items = append(items, item)
		}
	}
	s.mu.RUnlock()

	sortItems(items)
	return items
}
