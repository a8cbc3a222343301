package item

import (
	"context"
	"fmt"
	"time"

	"github.com/thenoetrevino/tado/internal/database"
	"github.com/thenoetrevino/tado/internal/events"
	"github.com/thenoetrevino/tado/internal/models"
)

// Service defines all item-related business operations
type Service interface {
	// Read operations
	GetItem(ctx context.Context, itemID string) (*models.Item, error)
	GetAllItems(ctx context.Context) ([]*models.Item, error)
	GetIncompleteItems(ctx context.Context) ([]*models.Item, error)
	GetCompletedItems(ctx context.Context) ([]*models.Item, error)
	GetInboxItems(ctx context.Context) ([]*models.Item, error)
	GetItemsByProject(ctx context.Context, projectID string) ([]*models.Item, error)
	GetItemsBySection(ctx context.Context, sectionID string) ([]*models.Item, error)
	GetSubItems(ctx context.Context, parentID string) ([]*models.Item, error)
	GetItemsByPriority(ctx context.Context, priority models.Priority) ([]*models.Item, error)
	GetPinnedItems(ctx context.Context, onlyIncomplete bool) ([]*models.Item, error)
	GetItemsDueToday(ctx context.Context) ([]*models.Item, error)
	GetScheduledItems(ctx context.Context) ([]*models.Item, error)
	GetOverdueItems(ctx context.Context) ([]*models.Item, error)

	// Write operations
	CreateItem(ctx context.Context, req CreateItemRequest) (*models.Item, error)
	UpdateItem(ctx context.Context, req UpdateItemRequest) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID string) error
	CompleteItem(ctx context.Context, itemID string, checked bool, completeSubItems bool) (*models.Item, error)
	PinItem(ctx context.Context, itemID string, pinned bool) error
	MoveItem(ctx context.Context, itemID string, projectID, sectionID *string) error
	UpdateItemsPosition(ctx context.Context, updates []PositionUpdate) error

	// Batch operations, best-effort: each returns how many succeeded
	CreateItems(ctx context.Context, reqs []CreateItemRequest) int
	UpdateItems(ctx context.Context, reqs []UpdateItemRequest) int
	DeleteItems(ctx context.Context, itemIDs []string) int
	CompleteItems(ctx context.Context, itemIDs []string, checked bool, completeSubItems bool) int

	// Label management
	AttachLabel(ctx context.Context, itemID, labelID string) error
	DetachLabel(ctx context.Context, itemID, labelID string) error
	SetLabels(ctx context.Context, itemID string, labelIDs []string) error

	// Reminders
	AddReminder(ctx context.Context, req CreateReminderRequest) (*models.Reminder, error)
	GetReminders(ctx context.Context, itemID string) ([]*models.Reminder, error)
	DeleteReminder(ctx context.Context, reminderID string) error

	// Attachments
	AddAttachment(ctx context.Context, req CreateAttachmentRequest) (*models.Attachment, error)
	GetAttachments(ctx context.Context, itemID string) ([]*models.Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID string) error
}

// CreateItemRequest encapsulates all data needed to create an item
type CreateItemRequest struct {
	Content     string
	Description string
	ProjectID   string // empty means inbox
	SectionID   string // optional
	ParentID    string // optional, makes this a sub-item
	Priority    models.Priority
	Due         *models.Due
	LabelIDs    []string
	Pinned      bool
}

// UpdateItemRequest encapsulates all data needed to update an item.
// Fields with pointers are optional - nil means don't update.
type UpdateItemRequest struct {
	ItemID      string
	Content     *string
	Description *string
	Priority    *models.Priority
	Due         **models.Due // outer nil: no change; inner nil: clear the due date
	Collapsed   *bool
}

// PositionUpdate assigns one item a new child order within its scope
type PositionUpdate struct {
	ItemID     string
	ChildOrder int
	ProjectID  string // scope announced with the position event
	SectionID  string
}

// CreateReminderRequest encapsulates all data needed to create a reminder
type CreateReminderRequest struct {
	ItemID       string
	Type         models.ReminderType
	Due          *models.Due // absolute reminders
	MinuteOffset int         // relative reminders
	NotifyUID    string
	Service      string
}

// CreateAttachmentRequest encapsulates all data needed to attach a file
type CreateAttachmentRequest struct {
	ItemID   string
	FileName string
	FileType string
	FileSize int64
	FilePath string
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	eventClient events.Publisher
	now         func() time.Time
}

// NewService creates a new item service
func NewService(repo database.DataStore, eventClient events.Publisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
		now:         time.Now,
	}
}

// ============================================================================
// WRITE OPERATIONS
// ============================================================================

// CreateItem handles item creation with validation and business rules
func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*models.Item, error) {
	if err := validateCreateItem(req); err != nil {
		return nil, err
	}

	item := &models.Item{
		Content:     req.Content,
		Description: req.Description,
		ProjectID:   optionalID(req.ProjectID),
		SectionID:   optionalID(req.SectionID),
		ParentID:    optionalID(req.ParentID),
		Priority:    req.Priority,
		Due:         req.Due,
		Pinned:      req.Pinned,
		ChildOrder:  models.DefaultChildOrder,
	}

	created, err := s.repo.InsertItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if len(req.LabelIDs) > 0 {
		if err := s.repo.SetItemLabels(ctx, created.ID, req.LabelIDs); err != nil {
			return nil, fmt.Errorf("failed to attach labels: %w", err)
		}
		created.Labels, err = s.repo.GetLabelsForItem(ctx, created.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load labels: %w", err)
		}
	}

	s.publishItemEvent(events.EventItemCreated, created)
	return created, nil
}

// UpdateItem handles item updates with validation. Only the fields
// present in the request change; the rest are carried over from the
// stored record.
func (s *service) UpdateItem(ctx context.Context, req UpdateItemRequest) (*models.Item, error) {
	if req.ItemID == "" {
		return nil, ErrInvalidItemID
	}
	if req.Content != nil && *req.Content == "" {
		return nil, ErrEmptyContent
	}
	if req.Content != nil && len(*req.Content) > models.MaxContentLength {
		return nil, ErrContentTooLong
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	item, err := s.repo.GetItemByID(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if req.Content != nil {
		item.Content = *req.Content
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if req.Due != nil {
		item.Due = *req.Due
	}
	if req.Collapsed != nil {
		item.Collapsed = *req.Collapsed
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.publishItemEvent(events.EventItemUpdated, item)
	return item, nil
}

// DeleteItem removes an item and its entire sub-item tree. Descendants
// are collected depth-first before the root row is deleted; the foreign
// keys on reminders, attachments and label links cascade per row.
func (s *service) DeleteItem(ctx context.Context, itemID string) error {
	if itemID == "" {
		return ErrInvalidItemID
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}

	descendants, err := s.collectDescendants(ctx, itemID)
	if err != nil {
		return err
	}

	// Children first so no orphan window is observable
	for i := len(descendants) - 1; i >= 0; i-- {
		if err := s.repo.DeleteItem(ctx, descendants[i].ID); err != nil {
			return fmt.Errorf("failed to delete sub-item: %w", err)
		}
		s.publishItemEvent(events.EventItemDeleted, descendants[i])
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.publishItemEvent(events.EventItemDeleted, item)
	return nil
}

// CompleteItem checks or unchecks an item. Completing sets completed_at;
// reopening clears it. Completing an already-checked item is a no-op, not
// an error. With completeSubItems set, the whole sub-item tree follows.
func (s *service) CompleteItem(ctx context.Context, itemID string, checked bool, completeSubItems bool) (*models.Item, error) {
	if itemID == "" {
		return nil, ErrInvalidItemID
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	// Idempotent: re-completing keeps the original completion time
	if item.Checked == checked {
		return item, nil
	}

	var completedAt *time.Time
	if checked {
		now := s.now().UTC()
		completedAt = &now
	}

	if err := s.repo.UpdateItemChecked(ctx, itemID, checked, completedAt); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	item.Checked = checked
	item.CompletedAt = completedAt

	if completeSubItems {
		descendants, err := s.collectDescendants(ctx, itemID)
		if err != nil {
			return nil, err
		}
		for _, sub := range descendants {
			if sub.Checked == checked {
				continue
			}
			if err := s.repo.UpdateItemChecked(ctx, sub.ID, checked, completedAt); err != nil {
				return nil, fmt.Errorf("failed to update sub-item: %w", err)
			}
			s.publishItemEvent(events.EventItemUpdated, sub)
		}
	}

	s.publishItemEvent(events.EventItemUpdated, item)
	return item, nil
}

// PinItem toggles the pinned flag. Pinning is independent of completion.
func (s *service) PinItem(ctx context.Context, itemID string, pinned bool) error {
	if itemID == "" {
		return ErrInvalidItemID
	}

	if err := s.repo.UpdateItemPin(ctx, itemID, pinned); err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventItemUpdated, itemID)
	return nil
}

// MoveItem reparents an item to a different project and/or section.
// A nil projectID moves the item to the inbox.
func (s *service) MoveItem(ctx context.Context, itemID string, projectID, sectionID *string) error {
	if itemID == "" {
		return ErrInvalidItemID
	}

	if err := s.repo.MoveItem(ctx, itemID, projectID, sectionID); err != nil {
		return fmt.Errorf("failed to move item: %w", err)
	}

	event := events.Event{Type: events.EventItemUpdated, EntityID: itemID}
	if projectID != nil {
		event.ProjectID = *projectID
	}
	if sectionID != nil {
		event.SectionID = *sectionID
	}
	events.Publish(s.eventClient, event)
	return nil
}

// UpdateItemsPosition applies a reorder in one pass and announces it as
// a single position event rather than one update per row
func (s *service) UpdateItemsPosition(ctx context.Context, updates []PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	for _, update := range updates {
		if update.ItemID == "" {
			return ErrInvalidItemID
		}
		if err := s.repo.UpdateItemOrder(ctx, update.ItemID, update.ChildOrder); err != nil {
			return fmt.Errorf("failed to reorder item: %w", err)
		}
	}

	events.Publish(s.eventClient, events.Event{
		Type:      events.EventItemsPositionUpdated,
		ProjectID: updates[0].ProjectID,
		SectionID: updates[0].SectionID,
	})
	return nil
}

// ============================================================================
// BATCH OPERATIONS
// ============================================================================

// CreateItems inserts a batch of items. Failures are skipped, not fatal:
// the return value is the number of items actually created.
func (s *service) CreateItems(ctx context.Context, reqs []CreateItemRequest) int {
	succeeded := 0
	for _, req := range reqs {
		if _, err := s.CreateItem(ctx, req); err == nil {
			succeeded++
		}
	}
	if succeeded > 0 {
		events.Publish(s.eventClient, events.Event{Type: events.EventBulkUpdate})
	}
	return succeeded
}

// UpdateItems applies a batch of updates, skipping failures
func (s *service) UpdateItems(ctx context.Context, reqs []UpdateItemRequest) int {
	succeeded := 0
	for _, req := range reqs {
		if _, err := s.UpdateItem(ctx, req); err == nil {
			succeeded++
		}
	}
	if succeeded > 0 {
		events.Publish(s.eventClient, events.Event{Type: events.EventBulkUpdate})
	}
	return succeeded
}

// DeleteItems deletes a batch of items, skipping failures
func (s *service) DeleteItems(ctx context.Context, itemIDs []string) int {
	succeeded := 0
	for _, id := range itemIDs {
		if err := s.DeleteItem(ctx, id); err == nil {
			succeeded++
		}
	}
	if succeeded > 0 {
		events.Publish(s.eventClient, events.Event{Type: events.EventBulkUpdate})
	}
	return succeeded
}

// CompleteItems checks or unchecks a batch of items, skipping failures.
// completeSubItems applies to every item in the batch.
func (s *service) CompleteItems(ctx context.Context, itemIDs []string, checked bool, completeSubItems bool) int {
	succeeded := 0
	for _, id := range itemIDs {
		if _, err := s.CompleteItem(ctx, id, checked, completeSubItems); err == nil {
			succeeded++
		}
	}
	if succeeded > 0 {
		events.Publish(s.eventClient, events.Event{Type: events.EventBulkUpdate})
	}
	return succeeded
}

// ============================================================================
// READ OPERATIONS
// ============================================================================

// GetItem retrieves a single item with its labels
func (s *service) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	if itemID == "" {
		return nil, ErrInvalidItemID
	}
	return s.repo.GetItemByID(ctx, itemID)
}

// GetAllItems retrieves every item
func (s *service) GetAllItems(ctx context.Context) ([]*models.Item, error) {
	return s.repo.GetAllItems(ctx)
}

// GetIncompleteItems retrieves all unchecked items
func (s *service) GetIncompleteItems(ctx context.Context) ([]*models.Item, error) {
	return s.repo.GetItemsByChecked(ctx, false)
}

// GetCompletedItems retrieves all checked items
func (s *service) GetCompletedItems(ctx context.Context) ([]*models.Item, error) {
	return s.repo.GetItemsByChecked(ctx, true)
}

// GetInboxItems retrieves unchecked items without a project
func (s *service) GetInboxItems(ctx context.Context) ([]*models.Item, error) {
	return s.repo.GetInboxItems(ctx)
}

// GetItemsByProject retrieves all items of a project
func (s *service) GetItemsByProject(ctx context.Context, projectID string) ([]*models.Item, error) {
	return s.repo.GetItemsByProject(ctx, projectID)
}

// GetItemsBySection retrieves all items of a section
func (s *service) GetItemsBySection(ctx context.Context, sectionID string) ([]*models.Item, error) {
	return s.repo.GetItemsBySection(ctx, sectionID)
}

// GetSubItems retrieves the direct children of an item
func (s *service) GetSubItems(ctx context.Context, parentID string) ([]*models.Item, error) {
	if parentID == "" {
		return nil, ErrInvalidItemID
	}
	return s.repo.GetItemsByParent(ctx, parentID)
}

// GetItemsByPriority retrieves items with the given priority
func (s *service) GetItemsByPriority(ctx context.Context, priority models.Priority) ([]*models.Item, error) {
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}
	return s.repo.GetItemsByPriority(ctx, priority)
}

// GetPinnedItems retrieves pinned items, optionally restricted to
// incomplete ones
func (s *service) GetPinnedItems(ctx context.Context, onlyIncomplete bool) ([]*models.Item, error) {
	return s.repo.GetPinnedItems(ctx, onlyIncomplete)
}

// GetItemsDueToday retrieves incomplete items due on today's calendar
// day. The date comparison happens here rather than in SQL because due
// dates carry their own timezones.
func (s *service) GetItemsDueToday(ctx context.Context) ([]*models.Item, error) {
	return s.filterDue(ctx, func(item *models.Item, now time.Time) bool {
		return item.DueToday(now)
	})
}

// GetScheduledItems retrieves incomplete items due on a future calendar day
func (s *service) GetScheduledItems(ctx context.Context) ([]*models.Item, error) {
	return s.filterDue(ctx, func(item *models.Item, now time.Time) bool {
		return item.Scheduled(now)
	})
}

// GetOverdueItems retrieves incomplete items due on a past calendar day.
// An item due earlier today is not overdue.
func (s *service) GetOverdueItems(ctx context.Context) ([]*models.Item, error) {
	return s.filterDue(ctx, func(item *models.Item, now time.Time) bool {
		return item.Overdue(now)
	})
}

func (s *service) filterDue(ctx context.Context, match func(*models.Item, time.Time) bool) ([]*models.Item, error) {
	items, err := s.repo.GetItemsWithDue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get items with due dates: %w", err)
	}

	now := s.now()
	matched := make([]*models.Item, 0, len(items))
	for _, item := range items {
		if match(item, now) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// ============================================================================
// LABELS
// ============================================================================

// AttachLabel adds a label to an item. Attaching a label the item
// already has is a no-op.
func (s *service) AttachLabel(ctx context.Context, itemID, labelID string) error {
	if itemID == "" {
		return ErrInvalidItemID
	}
	if labelID == "" {
		return ErrInvalidLabelID
	}

	if err := s.repo.AddLabelToItem(ctx, itemID, labelID); err != nil {
		return fmt.Errorf("failed to attach label: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventItemUpdated, itemID)
	return nil
}

// DetachLabel removes a label from an item
func (s *service) DetachLabel(ctx context.Context, itemID, labelID string) error {
	if itemID == "" {
		return ErrInvalidItemID
	}
	if labelID == "" {
		return ErrInvalidLabelID
	}

	if err := s.repo.RemoveLabelFromItem(ctx, itemID, labelID); err != nil {
		return fmt.Errorf("failed to detach label: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventItemUpdated, itemID)
	return nil
}

// SetLabels replaces the item's label set wholesale
func (s *service) SetLabels(ctx context.Context, itemID string, labelIDs []string) error {
	if itemID == "" {
		return ErrInvalidItemID
	}

	if err := s.repo.SetItemLabels(ctx, itemID, labelIDs); err != nil {
		return fmt.Errorf("failed to set labels: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventItemUpdated, itemID)
	return nil
}

// ============================================================================
// REMINDERS
// ============================================================================

// AddReminder creates a reminder on an item. Relative reminders require
// the item to carry a due date to resolve against.
func (s *service) AddReminder(ctx context.Context, req CreateReminderRequest) (*models.Reminder, error) {
	if req.ItemID == "" {
		return nil, ErrInvalidItemID
	}

	item, err := s.repo.GetItemByID(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if req.Type == models.ReminderRelative && item.Due == nil {
		return nil, ErrReminderNoDue
	}

	reminder := &models.Reminder{
		ItemID:       req.ItemID,
		Type:         req.Type,
		Due:          req.Due,
		MinuteOffset: req.MinuteOffset,
		NotifyUID:    req.NotifyUID,
		Service:      req.Service,
	}

	created, err := s.repo.InsertReminder(ctx, reminder)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventReminderCreated, created.ID)
	return created, nil
}

// GetReminders retrieves the reminders of an item
func (s *service) GetReminders(ctx context.Context, itemID string) ([]*models.Reminder, error) {
	if itemID == "" {
		return nil, ErrInvalidItemID
	}
	return s.repo.GetRemindersByItem(ctx, itemID)
}

// DeleteReminder removes a reminder
func (s *service) DeleteReminder(ctx context.Context, reminderID string) error {
	if reminderID == "" {
		return ErrInvalidReminder
	}

	if err := s.repo.DeleteReminder(ctx, reminderID); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventReminderDeleted, reminderID)
	return nil
}

// ============================================================================
// ATTACHMENTS
// ============================================================================

// AddAttachment records a file attached to an item
func (s *service) AddAttachment(ctx context.Context, req CreateAttachmentRequest) (*models.Attachment, error) {
	if req.ItemID == "" {
		return nil, ErrInvalidItemID
	}
	if req.FileName == "" {
		return nil, ErrEmptyFileName
	}

	attachment := &models.Attachment{
		ItemID:   req.ItemID,
		FileName: req.FileName,
		FileType: req.FileType,
		FileSize: req.FileSize,
		FilePath: req.FilePath,
	}

	created, err := s.repo.InsertAttachment(ctx, attachment)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventItemUpdated, req.ItemID)
	return created, nil
}

// GetAttachments retrieves the attachments of an item
func (s *service) GetAttachments(ctx context.Context, itemID string) ([]*models.Attachment, error) {
	if itemID == "" {
		return nil, ErrInvalidItemID
	}
	return s.repo.GetAttachmentsByItem(ctx, itemID)
}

// DeleteAttachment removes an attachment record
func (s *service) DeleteAttachment(ctx context.Context, attachmentID string) error {
	if attachmentID == "" {
		return ErrInvalidItemID
	}

	attachment, err := s.repo.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		return fmt.Errorf("failed to get attachment: %w", err)
	}

	if err := s.repo.DeleteAttachment(ctx, attachmentID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventItemUpdated, attachment.ItemID)
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

// collectDescendants walks the sub-item tree breadth-first and returns
// every descendant, parents before their children
func (s *service) collectDescendants(ctx context.Context, itemID string) ([]*models.Item, error) {
	var all []*models.Item
	queue := []string{itemID}

	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]

		children, err := s.repo.GetItemsByParent(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get sub-items: %w", err)
		}
		for _, child := range children {
			all = append(all, child)
			queue = append(queue, child.ID)
		}
	}
	return all, nil
}

// validateCreateItem validates a CreateItemRequest
func validateCreateItem(req CreateItemRequest) error {
	if req.Content == "" {
		return ErrEmptyContent
	}
	if len(req.Content) > models.MaxContentLength {
		return ErrContentTooLong
	}
	if !req.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// optionalID maps the empty string to nil so "no project" is stored as
// NULL, never as an empty string
func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// publishItemEvent announces a change carrying identifiers only
func (s *service) publishItemEvent(eventType events.EventType, item *models.Item) {
	event := events.Event{Type: eventType, EntityID: item.ID}
	if item.ProjectID != nil {
		event.ProjectID = *item.ProjectID
	}
	if item.SectionID != nil {
		event.SectionID = *item.SectionID
	}
	events.Publish(s.eventClient, event)
}
