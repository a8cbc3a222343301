package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/tado/internal/models"
)

// ============================================================================
// Attachment Operations
// ============================================================================

// AttachmentRepo handles all attachment-related database operations.
type AttachmentRepo struct {
	db *sql.DB
}

const attachmentColumns = `id, item_id, file_name, file_type, file_size,
	file_path, created_at`

// scanAttachment reads one attachment row into a model
func scanAttachment(row rowScanner) (*models.Attachment, error) {
	attachment := &models.Attachment{}
	err := row.Scan(
		&attachment.ID, &attachment.ItemID, &attachment.FileName,
		&attachment.FileType, &attachment.FileSize, &attachment.FilePath,
		&attachment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return attachment, nil
}

// InsertAttachment persists a new attachment. A duplicate file name on
// the same item surfaces as ErrAlreadyExists.
func (r *AttachmentRepo) InsertAttachment(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {
	if attachment.ID == "" {
		attachment.ID = uuid.NewString()
	}
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attachments (id, item_id, file_name, file_type,
			file_size, file_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attachment.ID, attachment.ItemID, attachment.FileName,
		attachment.FileType, attachment.FileSize, attachment.FilePath,
		attachment.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, models.ErrAlreadyExists
	}
	if err != nil {
		return nil, models.WrapDB("insert attachment", err)
	}

	return attachment, nil
}

// GetAttachmentByID retrieves a single attachment.
// A missing row is reported as NotFoundError.
func (r *AttachmentRepo) GetAttachmentByID(ctx context.Context, id string) (*models.Attachment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`, id)

	attachment, err := scanAttachment(row)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound(models.KindAttachment, id)
	}
	if err != nil {
		return nil, models.WrapDB("get attachment", err)
	}
	return attachment, nil
}

// GetAttachmentsByItem retrieves all attachments on an item
func (r *AttachmentRepo) GetAttachmentsByItem(ctx context.Context, itemID string) ([]*models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE item_id = ? ORDER BY file_name`,
		itemID)
	if err != nil {
		return nil, models.WrapDB("get attachments by item", err)
	}
	defer rows.Close()

	var attachments []*models.Attachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, models.WrapDB("get attachments by item", err)
		}
		attachments = append(attachments, attachment)
	}

	if err := rows.Err(); err != nil {
		return nil, models.WrapDB("get attachments by item", err)
	}
	return attachments, nil
}

// DeleteAttachment removes an attachment
func (r *AttachmentRepo) DeleteAttachment(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, id)
	if err != nil {
		return models.WrapDB("delete attachment", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.WrapDB("delete attachment", err)
	}
	if affected == 0 {
		return models.NewNotFound(models.KindAttachment, id)
	}
	return nil
}
