// Package database defines repository interfaces for data access
package database

import (
	"context"
	"time"

	"github.com/thenoetrevino/tado/internal/models"
)

// ItemRepository defines the data operations for items
type ItemRepository interface {
	InsertItem(ctx context.Context, item *models.Item) (*models.Item, error)
	GetItemByID(ctx context.Context, id string) (*models.Item, error)
	GetAllItems(ctx context.Context) ([]*models.Item, error)
	GetItemsByProject(ctx context.Context, projectID string) ([]*models.Item, error)
	GetItemsBySection(ctx context.Context, sectionID string) ([]*models.Item, error)
	GetItemsByParent(ctx context.Context, parentID string) ([]*models.Item, error)
	GetItemsByChecked(ctx context.Context, checked bool) ([]*models.Item, error)
	GetInboxItems(ctx context.Context) ([]*models.Item, error)
	GetItemsByPriority(ctx context.Context, priority models.Priority) ([]*models.Item, error)
	GetPinnedItems(ctx context.Context, onlyIncomplete bool) ([]*models.Item, error)
	GetItemsWithDue(ctx context.Context) ([]*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	UpdateItemPin(ctx context.Context, id string, pinned bool) error
	UpdateItemChecked(ctx context.Context, id string, checked bool, completedAt *time.Time) error
	UpdateItemOrder(ctx context.Context, id string, childOrder int) error
	MoveItem(ctx context.Context, id string, projectID, sectionID *string) error
	DeleteItem(ctx context.Context, id string) error
}

// ProjectRepository defines the data operations for projects
type ProjectRepository interface {
	InsertProject(ctx context.Context, project *models.Project) (*models.Project, error)
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	GetAllProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectsByParent(ctx context.Context, parentID string) ([]*models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id string) error
}

// SectionRepository defines the data operations for sections
type SectionRepository interface {
	InsertSection(ctx context.Context, section *models.Section) (*models.Section, error)
	GetSectionByID(ctx context.Context, id string) (*models.Section, error)
	GetAllSections(ctx context.Context) ([]*models.Section, error)
	GetSectionsByProject(ctx context.Context, projectID string) ([]*models.Section, error)
	UpdateSection(ctx context.Context, section *models.Section) error
	DeleteSection(ctx context.Context, id string) error
}

// LabelRepository defines the data operations for labels and the
// item-label join rows
type LabelRepository interface {
	InsertLabel(ctx context.Context, label *models.Label) (*models.Label, error)
	GetLabelByID(ctx context.Context, id string) (*models.Label, error)
	GetLabelByName(ctx context.Context, name string) (*models.Label, error)
	GetAllLabels(ctx context.Context) ([]*models.Label, error)
	GetLabelsForItem(ctx context.Context, itemID string) ([]*models.Label, error)
	UpdateLabel(ctx context.Context, label *models.Label) error
	DeleteLabel(ctx context.Context, id string) error
	AddLabelToItem(ctx context.Context, itemID, labelID string) error
	RemoveLabelFromItem(ctx context.Context, itemID, labelID string) error
	SetItemLabels(ctx context.Context, itemID string, labelIDs []string) error
}

// ReminderRepository defines the data operations for reminders
type ReminderRepository interface {
	InsertReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error)
	GetReminderByID(ctx context.Context, id string) (*models.Reminder, error)
	GetRemindersByItem(ctx context.Context, itemID string) ([]*models.Reminder, error)
	DeleteReminder(ctx context.Context, id string) error
}

// AttachmentRepository defines the data operations for attachments
type AttachmentRepository interface {
	InsertAttachment(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error)
	GetAttachmentByID(ctx context.Context, id string) (*models.Attachment, error)
	GetAttachmentsByItem(ctx context.Context, itemID string) ([]*models.Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
}

// DataStore defines the unified interface for all data operations needed
// by the service layer. It is composed of smaller, domain-specific
// interfaces so consumers can depend on just the slice they use.
type DataStore interface {
	ItemRepository
	ProjectRepository
	SectionRepository
	LabelRepository
	ReminderRepository
	AttachmentRepository
}
