package database

import "database/sql"

// Repository provides a unified entry point to all data operations.
// It composes domain-specific repositories using struct embedding;
// method names are entity-qualified so the promoted sets never collide.
type Repository struct {
	*ItemRepo
	*ProjectRepo
	*SectionRepo
	*LabelRepo
	*ReminderRepo
	*AttachmentRepo
}

// Compile-time verification that *Repository satisfies DataStore
var _ DataStore = (*Repository)(nil)

// NewRepository creates a new Repository instance wrapping the given
// database connection
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ItemRepo:       &ItemRepo{db: db},
		ProjectRepo:    &ProjectRepo{db: db},
		SectionRepo:    &SectionRepo{db: db},
		LabelRepo:      &LabelRepo{db: db},
		ReminderRepo:   &ReminderRepo{db: db},
		AttachmentRepo: &AttachmentRepo{db: db},
	}
}
