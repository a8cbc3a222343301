package section

import "errors"

// Section-related errors
var (
	ErrEmptyName        = errors.New("section name cannot be empty")
	ErrNameTooLong      = errors.New("section name cannot exceed 120 characters")
	ErrInvalidSectionID = errors.New("invalid section ID")
	ErrMissingProjectID = errors.New("section requires a project ID")
)
