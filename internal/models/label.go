package models

// Label represents a tag that can be applied to items
// Label names are globally unique
type Label struct {
	ID         string
	Name       string
	Color      string // Hex color code (e.g., "#7D56F4")
	ItemOrder  int
	IsFavorite bool
	IsDeleted  bool
}
