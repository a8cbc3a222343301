package project

import "errors"

// Domain errors for project service
var (
	// Validation errors
	ErrEmptyName        = errors.New("project name cannot be empty")
	ErrNameTooLong      = errors.New("project name cannot exceed 120 characters")
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrInvalidViewStyle = errors.New("view style must be 'list' or 'board'")
)
