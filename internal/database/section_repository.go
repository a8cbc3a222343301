package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/tado/internal/models"
)

// ============================================================================
// Section Operations
// ============================================================================

// SectionRepo handles all section-related database operations.
type SectionRepo struct {
	db *sql.DB
}

const sectionColumns = `id, project_id, name, section_order, is_archived,
	collapsed, created_at, updated_at`

// scanSection reads one section row into a model
func scanSection(row rowScanner) (*models.Section, error) {
	section := &models.Section{}
	err := row.Scan(
		&section.ID, &section.ProjectID, &section.Name,
		&section.SectionOrder, &section.IsArchived, &section.Collapsed,
		&section.CreatedAt, &section.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return section, nil
}

// InsertSection persists a new section, assigning an id when absent
func (r *SectionRepo) InsertSection(ctx context.Context, section *models.Section) (*models.Section, error) {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if section.CreatedAt.IsZero() {
		section.CreatedAt = now
	}
	if section.UpdatedAt.IsZero() {
		section.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sections (id, project_id, name, section_order,
			is_archived, collapsed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		section.ID, section.ProjectID, section.Name, section.SectionOrder,
		section.IsArchived, section.Collapsed, section.CreatedAt,
		section.UpdatedAt,
	)
	if err != nil {
		return nil, models.WrapDB("insert section", err)
	}

	return section, nil
}

// GetSectionByID retrieves a single section.
// A missing row is reported as NotFoundError.
func (r *SectionRepo) GetSectionByID(ctx context.Context, id string) (*models.Section, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE id = ?`, id)

	section, err := scanSection(row)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound(models.KindSection, id)
	}
	if err != nil {
		return nil, models.WrapDB("get section", err)
	}

	return section, nil
}

// GetAllSections retrieves every section
func (r *SectionRepo) GetAllSections(ctx context.Context) ([]*models.Section, error) {
	return r.querySections(ctx,
		`SELECT `+sectionColumns+` FROM sections ORDER BY section_order, name`)
}

// GetSectionsByProject retrieves the sections of a single project,
// ordered for display
func (r *SectionRepo) GetSectionsByProject(ctx context.Context, projectID string) ([]*models.Section, error) {
	return r.querySections(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE project_id = ? ORDER BY section_order, name`,
		projectID)
}

func (r *SectionRepo) querySections(ctx context.Context, query string, args ...any) ([]*models.Section, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.WrapDB("get sections", err)
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, models.WrapDB("get sections", err)
		}
		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, models.WrapDB("get sections", err)
	}
	return sections, nil
}

// UpdateSection replaces the full record for section.ID
func (r *SectionRepo) UpdateSection(ctx context.Context, section *models.Section) error {
	section.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE sections
		 SET project_id = ?, name = ?, section_order = ?, is_archived = ?,
			collapsed = ?, updated_at = ?
		 WHERE id = ?`,
		section.ProjectID, section.Name, section.SectionOrder,
		section.IsArchived, section.Collapsed, section.UpdatedAt, section.ID,
	)
	if err != nil {
		return models.WrapDB("update section", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.WrapDB("update section", err)
	}
	if affected == 0 {
		return models.NewNotFound(models.KindSection, section.ID)
	}
	return nil
}

// DeleteSection removes a section; its items go with it via FK cascade
func (r *SectionRepo) DeleteSection(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return models.WrapDB("delete section", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.WrapDB("delete section", err)
	}
	if affected == 0 {
		return models.NewNotFound(models.KindSection, id)
	}
	return nil
}
