package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/tado/internal/models"
)

// ============================================================================
// Label Operations
// ============================================================================

// LabelRepo handles all label-related database operations, including the
// item-label join rows.
type LabelRepo struct {
	db *sql.DB
}

const labelColumns = `id, name, color, item_order, is_favorite, is_deleted`

// scanLabel reads one label row into a model
func scanLabel(row rowScanner) (*models.Label, error) {
	label := &models.Label{}
	err := row.Scan(
		&label.ID, &label.Name, &label.Color, &label.ItemOrder,
		&label.IsFavorite, &label.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return label, nil
}

// InsertLabel persists a new label. Duplicate names surface as
// ErrAlreadyExists rather than a raw constraint error.
func (r *LabelRepo) InsertLabel(ctx context.Context, label *models.Label) (*models.Label, error) {
	if label.ID == "" {
		label.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO labels (id, name, color, item_order, is_favorite, is_deleted)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		label.ID, label.Name, label.Color, label.ItemOrder,
		label.IsFavorite, label.IsDeleted,
	)
	if isUniqueViolation(err) {
		return nil, models.ErrAlreadyExists
	}
	if err != nil {
		return nil, models.WrapDB("insert label", err)
	}

	return label, nil
}

// GetLabelByID retrieves a single label.
// A missing row is reported as NotFoundError.
func (r *LabelRepo) GetLabelByID(ctx context.Context, id string) (*models.Label, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE id = ?`, id)

	label, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound(models.KindLabel, id)
	}
	if err != nil {
		return nil, models.WrapDB("get label", err)
	}
	return label, nil
}

// GetLabelByName retrieves a label by its unique name
func (r *LabelRepo) GetLabelByName(ctx context.Context, name string) (*models.Label, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE name = ?`, name)

	label, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound(models.KindLabel, name)
	}
	if err != nil {
		return nil, models.WrapDB("get label by name", err)
	}
	return label, nil
}

// GetAllLabels retrieves all labels ordered by item_order then name
func (r *LabelRepo) GetAllLabels(ctx context.Context) ([]*models.Label, error) {
	return r.queryLabels(ctx,
		`SELECT `+labelColumns+` FROM labels ORDER BY item_order, name`)
}

// GetLabelsForItem retrieves the labels attached to an item
func (r *LabelRepo) GetLabelsForItem(ctx context.Context, itemID string) ([]*models.Label, error) {
	return r.queryLabels(ctx,
		`SELECT l.id, l.name, l.color, l.item_order, l.is_favorite, l.is_deleted
		 FROM labels l
		 JOIN item_labels il ON il.label_id = l.id
		 WHERE il.item_id = ?
		 ORDER BY l.item_order, l.name`,
		itemID)
}

func (r *LabelRepo) queryLabels(ctx context.Context, query string, args ...any) ([]*models.Label, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.WrapDB("get labels", err)
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, models.WrapDB("get labels", err)
		}
		labels = append(labels, label)
	}

	if err := rows.Err(); err != nil {
		return nil, models.WrapDB("get labels", err)
	}
	return labels, nil
}

// UpdateLabel replaces the full record for label.ID. Renaming onto an
// existing name surfaces as ErrAlreadyExists.
func (r *LabelRepo) UpdateLabel(ctx context.Context, label *models.Label) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE labels
		 SET name = ?, color = ?, item_order = ?, is_favorite = ?, is_deleted = ?
		 WHERE id = ?`,
		label.Name, label.Color, label.ItemOrder, label.IsFavorite,
		label.IsDeleted, label.ID,
	)
	if isUniqueViolation(err) {
		return models.ErrAlreadyExists
	}
	if err != nil {
		return models.WrapDB("update label", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.WrapDB("update label", err)
	}
	if affected == 0 {
		return models.NewNotFound(models.KindLabel, label.ID)
	}
	return nil
}

// DeleteLabel removes a label; join rows go with it via FK cascade
func (r *LabelRepo) DeleteLabel(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, id)
	if err != nil {
		return models.WrapDB("delete label", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.WrapDB("delete label", err)
	}
	if affected == 0 {
		return models.NewNotFound(models.KindLabel, id)
	}
	return nil
}

// AddLabelToItem attaches a label to an item. Attaching an already
// attached label is a no-op.
func (r *LabelRepo) AddLabelToItem(ctx context.Context, itemID, labelID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO item_labels (item_id, label_id, created_at)
		 VALUES (?, ?, ?)`,
		itemID, labelID, time.Now().UTC(),
	)
	if err != nil {
		return models.WrapDB("add label to item", err)
	}
	return nil
}

// RemoveLabelFromItem detaches a label from an item
func (r *LabelRepo) RemoveLabelFromItem(ctx context.Context, itemID, labelID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM item_labels WHERE item_id = ? AND label_id = ?`,
		itemID, labelID,
	)
	if err != nil {
		return models.WrapDB("remove label from item", err)
	}
	return nil
}

// SetItemLabels replaces the complete label set of an item in one
// transaction
func (r *LabelRepo) SetItemLabels(ctx context.Context, itemID string, labelIDs []string) error {
	now := time.Now().UTC()
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM item_labels WHERE item_id = ?`, itemID); err != nil {
			return models.WrapDB("set item labels", err)
		}
		for _, labelID := range labelIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO item_labels (item_id, label_id, created_at) VALUES (?, ?, ?)`,
				itemID, labelID, now); err != nil {
				return models.WrapDB("set item labels", err)
			}
		}
		return nil
	})
}
