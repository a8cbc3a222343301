package item

import "errors"

// Item-related errors
var (
	// Validation errors
	ErrEmptyContent    = errors.New("item content cannot be empty")
	ErrContentTooLong  = errors.New("item content cannot exceed 500 characters")
	ErrInvalidItemID   = errors.New("invalid item ID")
	ErrInvalidLabelID  = errors.New("invalid label ID")
	ErrInvalidPriority = errors.New("invalid priority")

	// Business logic errors
	ErrReminderNoDue   = errors.New("relative reminder requires the item to have a due date")
	ErrEmptyFileName   = errors.New("attachment file name cannot be empty")
	ErrInvalidReminder = errors.New("invalid reminder ID")
)
