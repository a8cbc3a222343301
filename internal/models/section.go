package models

import "time"

// Section represents a named group of items inside a project.
// A section belongs to exactly one project.
type Section struct {
	ID           string
	ProjectID    string
	Name         string
	SectionOrder int
	IsArchived   bool
	Collapsed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
