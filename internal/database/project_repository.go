package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/tado/internal/models"
)

// ============================================================================
// Project Operations
// ============================================================================

// ProjectRepo handles all project-related database operations.
type ProjectRepo struct {
	db *sql.DB
}

const projectColumns = `id, name, description, parent_id, child_order,
	is_archived, is_favorite, view_style, icon_style, color,
	created_at, updated_at`

// scanProject reads one project row into a model
func scanProject(row rowScanner) (*models.Project, error) {
	project := &models.Project{}
	var parentID sql.NullString

	err := row.Scan(
		&project.ID, &project.Name, &project.Description, &parentID,
		&project.ChildOrder, &project.IsArchived, &project.IsFavorite,
		&project.ViewStyle, &project.IconStyle, &project.Color,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	project.ParentID = nullStringToPtr(parentID)
	return project, nil
}

// InsertProject persists a new project, assigning an id when absent
func (r *ProjectRepo) InsertProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	if project.UpdatedAt.IsZero() {
		project.UpdatedAt = now
	}
	if project.ViewStyle == "" {
		project.ViewStyle = models.ViewStyleList
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, parent_id, child_order,
			is_archived, is_favorite, view_style, icon_style, color,
			created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Description,
		ptrToNullString(project.ParentID), project.ChildOrder,
		project.IsArchived, project.IsFavorite, project.ViewStyle,
		project.IconStyle, project.Color, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return nil, models.WrapDB("insert project", err)
	}

	return project, nil
}

// GetProjectByID retrieves a single project.
// A missing row is reported as NotFoundError.
func (r *ProjectRepo) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound(models.KindProject, id)
	}
	if err != nil {
		return nil, models.WrapDB("get project", err)
	}

	return project, nil
}

// GetAllProjects retrieves every project ordered for display
func (r *ProjectRepo) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY child_order, name`)
	if err != nil {
		return nil, models.WrapDB("get all projects", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, models.WrapDB("get all projects", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, models.WrapDB("get all projects", err)
	}
	return projects, nil
}

// GetProjectsByParent retrieves the nested sub-projects of a project
func (r *ProjectRepo) GetProjectsByParent(ctx context.Context, parentID string) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE parent_id = ? ORDER BY child_order, name`,
		parentID)
	if err != nil {
		return nil, models.WrapDB("get projects by parent", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, models.WrapDB("get projects by parent", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, models.WrapDB("get projects by parent", err)
	}
	return projects, nil
}

// UpdateProject replaces the full record for project.ID
func (r *ProjectRepo) UpdateProject(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE projects
		 SET name = ?, description = ?, parent_id = ?, child_order = ?,
			is_archived = ?, is_favorite = ?, view_style = ?, icon_style = ?,
			color = ?, updated_at = ?
		 WHERE id = ?`,
		project.Name, project.Description, ptrToNullString(project.ParentID),
		project.ChildOrder, project.IsArchived, project.IsFavorite,
		project.ViewStyle, project.IconStyle, project.Color,
		project.UpdatedAt, project.ID,
	)
	if err != nil {
		return models.WrapDB("update project", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.WrapDB("update project", err)
	}
	if affected == 0 {
		return models.NewNotFound(models.KindProject, project.ID)
	}
	return nil
}

// DeleteProject removes a project. Sections and items referencing the
// project (or its sections) are removed through FK cascade.
func (r *ProjectRepo) DeleteProject(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return models.WrapDB("delete project", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.WrapDB("delete project", err)
	}
	if affected == 0 {
		return models.NewNotFound(models.KindProject, id)
	}
	return nil
}
