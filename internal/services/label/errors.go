package label

import "errors"

// Label-related errors
var (
	// Validation errors
	ErrEmptyName      = errors.New("label name cannot be empty")
	ErrNameTooLong    = errors.New("label name cannot exceed 120 characters")
	ErrInvalidColor   = errors.New("invalid color format (must be hex color like #FFFFFF)")
	ErrInvalidLabelID = errors.New("invalid label ID")

	// Business logic errors
	ErrDuplicateName = errors.New("a label with this name already exists")
)
