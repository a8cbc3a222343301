package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/tado/internal/models"
)

// ============================================================================
// Item Operations
// ============================================================================

// ItemRepo handles all item-related database operations.
// It is purely mechanical mapping: no caching, no validation,
// no cross-entity logic.
type ItemRepo struct {
	db *sql.DB
}

// itemColumns is the canonical select list shared by every item query
const itemColumns = `id, content, description, checked, pinned, priority,
	project_id, section_id, parent_id, due, added_at, updated_at,
	completed_at, child_order, day_order, is_deleted, collapsed,
	extra_data, item_type`

// rowScanner abstracts *sql.Row and *sql.Rows for scanItem
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem reads one item row into a model
func scanItem(row rowScanner) (*models.Item, error) {
	item := &models.Item{}
	var (
		projectID, sectionID, parentID, due sql.NullString
		completedAt                         sql.NullTime
	)

	err := row.Scan(
		&item.ID, &item.Content, &item.Description, &item.Checked,
		&item.Pinned, &item.Priority, &projectID, &sectionID, &parentID,
		&due, &item.AddedAt, &item.UpdatedAt, &completedAt,
		&item.ChildOrder, &item.DayOrder, &item.IsDeleted, &item.Collapsed,
		&item.ExtraData, &item.ItemType,
	)
	if err != nil {
		return nil, err
	}

	item.ProjectID = nullStringToPtr(projectID)
	item.SectionID = nullStringToPtr(sectionID)
	item.ParentID = nullStringToPtr(parentID)
	item.CompletedAt = nullTimeToPtr(completedAt)
	item.Due, err = decodeDue(due)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// queryItems runs an item query and scans all resulting rows
func (r *ItemRepo) queryItems(ctx context.Context, query string, args ...any) ([]*models.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// InsertItem persists a new item. An id is assigned when the caller
// omits one, and zero timestamps are filled in. Returns the persisted
// record including server-assigned fields.
func (r *ItemRepo) InsertItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.AddedAt.IsZero() {
		item.AddedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}

	due, err := encodeDue(item.Due)
	if err != nil {
		return nil, models.WrapDB("insert item", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO items (id, content, description, checked, pinned, priority,
			project_id, section_id, parent_id, due, added_at, updated_at,
			completed_at, child_order, day_order, is_deleted, collapsed,
			extra_data, item_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Content, item.Description, item.Checked, item.Pinned,
		item.Priority, ptrToNullString(item.ProjectID),
		ptrToNullString(item.SectionID), ptrToNullString(item.ParentID),
		due, item.AddedAt, item.UpdatedAt, ptrToNullTime(item.CompletedAt),
		item.ChildOrder, item.DayOrder, item.IsDeleted, item.Collapsed,
		item.ExtraData, item.ItemType,
	)
	if err != nil {
		return nil, models.WrapDB("insert item", err)
	}

	return item, nil
}

// GetItemByID retrieves a single item with its labels.
// A missing row is reported as NotFoundError, not a database error.
func (r *ItemRepo) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound(models.KindItem, id)
	}
	if err != nil {
		return nil, models.WrapDB("get item", err)
	}

	if err := r.attachLabels(ctx, []*models.Item{item}); err != nil {
		return nil, models.WrapDB("get item labels", err)
	}

	return item, nil
}

// GetAllItems retrieves every item, labels included, ordered for stable
// cache loads
func (r *ItemRepo) GetAllItems(ctx context.Context) ([]*models.Item, error) {
	items, err := r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY added_at, id`)
	if err != nil {
		return nil, models.WrapDB("get all items", err)
	}
	if err := r.attachLabels(ctx, items); err != nil {
		return nil, models.WrapDB("get all items", err)
	}
	return items, nil
}

// GetItemsByProject retrieves all items for a specific project,
// ordered by child_order
func (r *ItemRepo) GetItemsByProject(ctx context.Context, projectID string) ([]*models.Item, error) {
	items, err := r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE project_id = ? ORDER BY child_order, added_at`,
		projectID)
	if err != nil {
		return nil, models.WrapDB("get items by project", err)
	}
	if err := r.attachLabels(ctx, items); err != nil {
		return nil, models.WrapDB("get items by project", err)
	}
	return items, nil
}

// GetItemsBySection retrieves all items for a specific section,
// ordered by child_order
func (r *ItemRepo) GetItemsBySection(ctx context.Context, sectionID string) ([]*models.Item, error) {
	items, err := r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE section_id = ? ORDER BY child_order, added_at`,
		sectionID)
	if err != nil {
		return nil, models.WrapDB("get items by section", err)
	}
	return items, nil
}

// GetItemsByParent retrieves the direct subtasks of an item
func (r *ItemRepo) GetItemsByParent(ctx context.Context, parentID string) ([]*models.Item, error) {
	items, err := r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE parent_id = ? ORDER BY child_order, added_at`,
		parentID)
	if err != nil {
		return nil, models.WrapDB("get items by parent", err)
	}
	return items, nil
}

// GetItemsByChecked retrieves items filtered by completion state
func (r *ItemRepo) GetItemsByChecked(ctx context.Context, checked bool) ([]*models.Item, error) {
	items, err := r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE checked = ? ORDER BY added_at, id`,
		checked)
	if err != nil {
		return nil, models.WrapDB("get items by checked", err)
	}
	return items, nil
}

// GetInboxItems retrieves incomplete items without a project.
// NULL project_id is the canonical inbox test.
func (r *ItemRepo) GetInboxItems(ctx context.Context) ([]*models.Item, error) {
	items, err := r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE project_id IS NULL AND checked = 0
		 ORDER BY child_order, added_at`)
	if err != nil {
		return nil, models.WrapDB("get inbox items", err)
	}
	return items, nil
}

// GetItemsByPriority retrieves items with an exact priority match
func (r *ItemRepo) GetItemsByPriority(ctx context.Context, priority models.Priority) ([]*models.Item, error) {
	items, err := r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE priority = ? ORDER BY added_at, id`,
		priority)
	if err != nil {
		return nil, models.WrapDB("get items by priority", err)
	}
	return items, nil
}

// GetPinnedItems retrieves pinned items. Pinning is independent of
// completion state; pass onlyIncomplete for the unchecked variant.
func (r *ItemRepo) GetPinnedItems(ctx context.Context, onlyIncomplete bool) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE pinned = 1`
	if onlyIncomplete {
		query += ` AND checked = 0`
	}
	query += ` ORDER BY added_at, id`

	items, err := r.queryItems(ctx, query)
	if err != nil {
		return nil, models.WrapDB("get pinned items", err)
	}
	return items, nil
}

// GetItemsWithDue retrieves incomplete items carrying a due payload.
// Calendar-day filtering happens in the service layer where timezone
// rules apply.
func (r *ItemRepo) GetItemsWithDue(ctx context.Context) ([]*models.Item, error) {
	items, err := r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE checked = 0 AND due IS NOT NULL
		 ORDER BY added_at, id`)
	if err != nil {
		return nil, models.WrapDB("get items with due", err)
	}
	return items, nil
}

// UpdateItem replaces the full record for item.ID.
// Fails with NotFoundError if the id does not exist.
func (r *ItemRepo) UpdateItem(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		return models.ErrIDMissing
	}
	due, err := encodeDue(item.Due)
	if err != nil {
		return models.WrapDB("update item", err)
	}
	item.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE items
		 SET content = ?, description = ?, checked = ?, pinned = ?,
			priority = ?, project_id = ?, section_id = ?, parent_id = ?,
			due = ?, updated_at = ?, completed_at = ?, child_order = ?,
			day_order = ?, is_deleted = ?, collapsed = ?, extra_data = ?,
			item_type = ?
		 WHERE id = ?`,
		item.Content, item.Description, item.Checked, item.Pinned,
		item.Priority, ptrToNullString(item.ProjectID),
		ptrToNullString(item.SectionID), ptrToNullString(item.ParentID),
		due, item.UpdatedAt, ptrToNullTime(item.CompletedAt),
		item.ChildOrder, item.DayOrder, item.IsDeleted, item.Collapsed,
		item.ExtraData, item.ItemType, item.ID,
	)
	if err != nil {
		return models.WrapDB("update item", err)
	}

	return r.requireRow(result, item.ID)
}

// UpdateItemPin flips only the pinned flag, leaving other fields alone
func (r *ItemRepo) UpdateItemPin(ctx context.Context, id string, pinned bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET pinned = ?, updated_at = ? WHERE id = ?`,
		pinned, time.Now().UTC(), id,
	)
	if err != nil {
		return models.WrapDB("update item pin", err)
	}
	return r.requireRow(result, id)
}

// UpdateItemChecked sets the checked flag and completed_at together
// so the two can never drift apart
func (r *ItemRepo) UpdateItemChecked(ctx context.Context, id string, checked bool, completedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET checked = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		checked, ptrToNullTime(completedAt), time.Now().UTC(), id,
	)
	if err != nil {
		return models.WrapDB("update item checked", err)
	}
	return r.requireRow(result, id)
}

// UpdateItemOrder sets the child_order of a single item
func (r *ItemRepo) UpdateItemOrder(ctx context.Context, id string, childOrder int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET child_order = ?, updated_at = ? WHERE id = ?`,
		childOrder, time.Now().UTC(), id,
	)
	if err != nil {
		return models.WrapDB("update item order", err)
	}
	return r.requireRow(result, id)
}

// MoveItem reassigns an item's project and section in one statement
func (r *ItemRepo) MoveItem(ctx context.Context, id string, projectID, sectionID *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET project_id = ?, section_id = ?, updated_at = ? WHERE id = ?`,
		ptrToNullString(projectID), ptrToNullString(sectionID),
		time.Now().UTC(), id,
	)
	if err != nil {
		return models.WrapDB("move item", err)
	}
	return r.requireRow(result, id)
}

// DeleteItem removes a single item row. Reminders, attachments, label
// links, and direct children go with it through FK cascade; recursive
// descent over grandchildren is orchestrated by the store.
func (r *ItemRepo) DeleteItem(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return models.WrapDB("delete item", err)
	}
	return r.requireRow(result, id)
}

// requireRow converts a zero-rows-affected result into NotFoundError
func (r *ItemRepo) requireRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return models.WrapDB("rows affected", err)
	}
	if affected == 0 {
		return models.NewNotFound(models.KindItem, id)
	}
	return nil
}

// attachLabels hydrates Labels for a batch of items with a single join
// query, avoiding the N+1 pattern
func (r *ItemRepo) attachLabels(ctx context.Context, items []*models.Item) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*models.Item, len(items))
	placeholders := make([]string, 0, len(items))
	args := make([]any, 0, len(items))
	for _, item := range items {
		item.Labels = nil
		byID[item.ID] = item
		placeholders = append(placeholders, "?")
		args = append(args, item.ID)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT il.item_id, l.id, l.name, l.color, l.item_order, l.is_favorite, l.is_deleted
		 FROM item_labels il
		 JOIN labels l ON il.label_id = l.id
		 WHERE il.item_id IN (`+strings.Join(placeholders, ", ")+`)
		 ORDER BY l.item_order, l.name`,
		args...,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		label := &models.Label{}
		if err := rows.Scan(&itemID, &label.ID, &label.Name, &label.Color,
			&label.ItemOrder, &label.IsFavorite, &label.IsDeleted); err != nil {
			return err
		}
		if item, ok := byID[itemID]; ok {
			item.Labels = append(item.Labels, label)
		}
	}

	return rows.Err()
}
