package models

import "time"

// Project represents a container for sections and items
// Projects are the top-level organizational unit in Tado
type Project struct {
	ID          string
	Name        string
	Description string
	ParentID    *string // nested projects
	ChildOrder  int
	IsArchived  bool
	IsFavorite  bool
	ViewStyle   string // "list" or "board"
	IconStyle   string
	Color       string // Hex color code (e.g., "#7D56F4")
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
