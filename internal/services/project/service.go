package project

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/tado/internal/database"
	"github.com/thenoetrevino/tado/internal/events"
	"github.com/thenoetrevino/tado/internal/models"
)

// Service defines all project-related business operations
type Service interface {
	// Read operations
	GetAllProjects(ctx context.Context) ([]*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetSubProjects(ctx context.Context, parentID string) ([]*models.Project, error)
	GetItemCount(ctx context.Context, projectID string) (int, error)

	// Write operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (*models.Project, error)
	ArchiveProject(ctx context.Context, id string, archived bool) error
	DeleteProject(ctx context.Context, id string) error
}

// CreateProjectRequest encapsulates data for creating a project
type CreateProjectRequest struct {
	Name        string
	Description string
	ParentID    string // optional, nests the project
	Color       string
	ViewStyle   string // defaults to list
	IsFavorite  bool
}

// UpdateProjectRequest encapsulates data for updating a project.
// Fields with pointers are optional - nil means don't update.
type UpdateProjectRequest struct {
	ID          string
	Name        *string
	Description *string
	Color       *string
	ViewStyle   *string
	IsFavorite  *bool
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	eventClient events.Publisher
}

// NewService creates a new project service
func NewService(repo database.DataStore, eventClient events.Publisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// CreateProject handles project creation with validation
func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if req.ViewStyle != "" && req.ViewStyle != models.ViewStyleList && req.ViewStyle != models.ViewStyleBoard {
		return nil, ErrInvalidViewStyle
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		ViewStyle:   req.ViewStyle,
		IsFavorite:  req.IsFavorite,
	}
	if req.ParentID != "" {
		project.ParentID = &req.ParentID
	}

	created, err := s.repo.InsertProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventProjectCreated, created.ID)
	return created, nil
}

// UpdateProject handles project updates with validation
func (s *service) UpdateProject(ctx context.Context, req UpdateProjectRequest) (*models.Project, error) {
	if req.ID == "" {
		return nil, ErrInvalidProjectID
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ViewStyle != nil && *req.ViewStyle != models.ViewStyleList && *req.ViewStyle != models.ViewStyleBoard {
		return nil, ErrInvalidViewStyle
	}

	project, err := s.repo.GetProjectByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Color != nil {
		project.Color = *req.Color
	}
	if req.ViewStyle != nil {
		project.ViewStyle = *req.ViewStyle
	}
	if req.IsFavorite != nil {
		project.IsFavorite = *req.IsFavorite
	}

	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventProjectUpdated, project.ID)
	return project, nil
}

// ArchiveProject flips the archived flag without touching anything else
func (s *service) ArchiveProject(ctx context.Context, id string, archived bool) error {
	if id == "" {
		return ErrInvalidProjectID
	}

	project, err := s.repo.GetProjectByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	project.IsArchived = archived
	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return fmt.Errorf("failed to archive project: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventProjectUpdated, id)
	return nil
}

// DeleteProject removes a project. Its sections and items go with it
// through the storage-level cascade; inbox items are unaffected because
// they reference no project.
func (s *service) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidProjectID
	}

	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventProjectDeleted, id)
	return nil
}

// GetAllProjects retrieves every project
func (s *service) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	return s.repo.GetAllProjects(ctx)
}

// GetProject retrieves a single project
func (s *service) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if id == "" {
		return nil, ErrInvalidProjectID
	}
	return s.repo.GetProjectByID(ctx, id)
}

// GetSubProjects retrieves the direct children of a project
func (s *service) GetSubProjects(ctx context.Context, parentID string) ([]*models.Project, error) {
	if parentID == "" {
		return nil, ErrInvalidProjectID
	}
	return s.repo.GetProjectsByParent(ctx, parentID)
}

// GetItemCount reports how many items live in a project. Used for the
// sidebar badge.
func (s *service) GetItemCount(ctx context.Context, projectID string) (int, error) {
	if projectID == "" {
		return 0, ErrInvalidProjectID
	}

	items, err := s.repo.GetItemsByProject(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return len(items), nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > models.MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
