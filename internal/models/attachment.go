package models

import "time"

// Attachment represents a file attached to an item.
// File names are unique per item.
type Attachment struct {
	ID        string
	ItemID    string
	FileName  string
	FileType  string
	FileSize  int64
	FilePath  string
	CreatedAt time.Time
}
