package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/tado/internal/models"
)

// ============================================================================
// Reminder Operations
// ============================================================================

// ReminderRepo handles all reminder-related database operations.
type ReminderRepo struct {
	db *sql.DB
}

const reminderColumns = `id, item_id, type, due, minute_offset, notify_uid,
	service, created_at`

// scanReminder reads one reminder row into a model
func scanReminder(row rowScanner) (*models.Reminder, error) {
	reminder := &models.Reminder{}
	var due sql.NullString

	err := row.Scan(
		&reminder.ID, &reminder.ItemID, &reminder.Type, &due,
		&reminder.MinuteOffset, &reminder.NotifyUID, &reminder.Service,
		&reminder.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reminder.Due, err = decodeDue(due)
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// InsertReminder persists a new reminder, assigning an id when absent
func (r *ReminderRepo) InsertReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now().UTC()
	}

	due, err := encodeDue(reminder.Due)
	if err != nil {
		return nil, models.WrapDB("insert reminder", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, item_id, type, due, minute_offset,
			notify_uid, service, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		reminder.ID, reminder.ItemID, reminder.Type, due,
		reminder.MinuteOffset, reminder.NotifyUID, reminder.Service,
		reminder.CreatedAt,
	)
	if err != nil {
		return nil, models.WrapDB("insert reminder", err)
	}

	return reminder, nil
}

// GetReminderByID retrieves a single reminder.
// A missing row is reported as NotFoundError.
func (r *ReminderRepo) GetReminderByID(ctx context.Context, id string) (*models.Reminder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)

	reminder, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound(models.KindReminder, id)
	}
	if err != nil {
		return nil, models.WrapDB("get reminder", err)
	}
	return reminder, nil
}

// GetRemindersByItem retrieves all reminders attached to an item
func (r *ReminderRepo) GetRemindersByItem(ctx context.Context, itemID string) ([]*models.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE item_id = ? ORDER BY created_at, id`,
		itemID)
	if err != nil {
		return nil, models.WrapDB("get reminders by item", err)
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, models.WrapDB("get reminders by item", err)
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, models.WrapDB("get reminders by item", err)
	}
	return reminders, nil
}

// DeleteReminder removes a reminder
func (r *ReminderRepo) DeleteReminder(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return models.WrapDB("delete reminder", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.WrapDB("delete reminder", err)
	}
	if affected == 0 {
		return models.NewNotFound(models.KindReminder, id)
	}
	return nil
}
