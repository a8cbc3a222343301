package section

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/tado/internal/database"
	"github.com/thenoetrevino/tado/internal/events"
	"github.com/thenoetrevino/tado/internal/models"
)

// Service defines all section-related business operations
type Service interface {
	// Read operations
	GetSection(ctx context.Context, id string) (*models.Section, error)
	GetAllSections(ctx context.Context) ([]*models.Section, error)
	GetSectionsByProject(ctx context.Context, projectID string) ([]*models.Section, error)

	// Write operations
	CreateSection(ctx context.Context, req CreateSectionRequest) (*models.Section, error)
	UpdateSection(ctx context.Context, req UpdateSectionRequest) (*models.Section, error)
	DeleteSection(ctx context.Context, id string) error
}

// CreateSectionRequest encapsulates data for creating a section
type CreateSectionRequest struct {
	ProjectID    string
	Name         string
	SectionOrder int
}

// UpdateSectionRequest encapsulates data for updating a section.
// Fields with pointers are optional - nil means don't update.
type UpdateSectionRequest struct {
	ID           string
	Name         *string
	SectionOrder *int
	Collapsed    *bool
	IsArchived   *bool
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	eventClient events.Publisher
}

// NewService creates a new section service
func NewService(repo database.DataStore, eventClient events.Publisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// CreateSection handles section creation. A section cannot exist
// outside a project.
func (s *service) CreateSection(ctx context.Context, req CreateSectionRequest) (*models.Section, error) {
	if req.ProjectID == "" {
		return nil, ErrMissingProjectID
	}
	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	// The project must exist; a dangling section would fail the foreign
	// key anyway, but this gives the caller a not-found instead
	if _, err := s.repo.GetProjectByID(ctx, req.ProjectID); err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	created, err := s.repo.InsertSection(ctx, &models.Section{
		ProjectID:    req.ProjectID,
		Name:         req.Name,
		SectionOrder: req.SectionOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}

	events.Publish(s.eventClient, events.Event{
		Type:      events.EventSectionCreated,
		EntityID:  created.ID,
		ProjectID: created.ProjectID,
	})
	return created, nil
}

// UpdateSection handles section updates with validation
func (s *service) UpdateSection(ctx context.Context, req UpdateSectionRequest) (*models.Section, error) {
	if req.ID == "" {
		return nil, ErrInvalidSectionID
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
	}

	section, err := s.repo.GetSectionByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	if req.Name != nil {
		section.Name = *req.Name
	}
	if req.SectionOrder != nil {
		section.SectionOrder = *req.SectionOrder
	}
	if req.Collapsed != nil {
		section.Collapsed = *req.Collapsed
	}
	if req.IsArchived != nil {
		section.IsArchived = *req.IsArchived
	}

	if err := s.repo.UpdateSection(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}

	events.Publish(s.eventClient, events.Event{
		Type:      events.EventSectionUpdated,
		EntityID:  section.ID,
		ProjectID: section.ProjectID,
	})
	return section, nil
}

// DeleteSection removes a section. Its items cascade away with it.
func (s *service) DeleteSection(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidSectionID
	}

	section, err := s.repo.GetSectionByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get section: %w", err)
	}

	if err := s.repo.DeleteSection(ctx, id); err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}

	events.Publish(s.eventClient, events.Event{
		Type:      events.EventSectionDeleted,
		EntityID:  id,
		ProjectID: section.ProjectID,
	})
	return nil
}

// GetSection retrieves a single section
func (s *service) GetSection(ctx context.Context, id string) (*models.Section, error) {
	if id == "" {
		return nil, ErrInvalidSectionID
	}
	return s.repo.GetSectionByID(ctx, id)
}

// GetAllSections retrieves every section
func (s *service) GetAllSections(ctx context.Context) ([]*models.Section, error) {
	return s.repo.GetAllSections(ctx)
}

// GetSectionsByProject retrieves the sections of one project
func (s *service) GetSectionsByProject(ctx context.Context, projectID string) ([]*models.Section, error) {
	if projectID == "" {
		return nil, ErrMissingProjectID
	}
	return s.repo.GetSectionsByProject(ctx, projectID)
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
