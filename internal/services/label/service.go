package label

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/thenoetrevino/tado/internal/database"
	"github.com/thenoetrevino/tado/internal/events"
	"github.com/thenoetrevino/tado/internal/models"
)

// Hex color regex pattern
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Service defines all label-related business operations
type Service interface {
	// Read operations
	GetAllLabels(ctx context.Context) ([]*models.Label, error)
	GetLabel(ctx context.Context, id string) (*models.Label, error)
	GetLabelByName(ctx context.Context, name string) (*models.Label, error)
	GetLabelsForItem(ctx context.Context, itemID string) ([]*models.Label, error)

	// Write operations
	CreateLabel(ctx context.Context, req CreateLabelRequest) (*models.Label, error)
	UpdateLabel(ctx context.Context, req UpdateLabelRequest) (*models.Label, error)
	DeleteLabel(ctx context.Context, id string) error
}

// CreateLabelRequest encapsulates data for creating a label
type CreateLabelRequest struct {
	Name       string
	Color      string // Hex color like #FF5733
	IsFavorite bool
}

// UpdateLabelRequest encapsulates data for updating a label.
// Fields with pointers are optional - nil means don't update.
type UpdateLabelRequest struct {
	ID         string
	Name       *string
	Color      *string
	IsFavorite *bool
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	eventClient events.Publisher
}

// NewService creates a new label service
func NewService(repo database.DataStore, eventClient events.Publisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// CreateLabel handles label creation. Names are globally unique, so a
// duplicate comes back as ErrDuplicateName.
func (s *service) CreateLabel(ctx context.Context, req CreateLabelRequest) (*models.Label, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if req.Color != "" && !hexColorRegex.MatchString(req.Color) {
		return nil, ErrInvalidColor
	}

	created, err := s.repo.InsertLabel(ctx, &models.Label{
		Name:       req.Name,
		Color:      req.Color,
		IsFavorite: req.IsFavorite,
	})
	if err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create label: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventLabelCreated, created.ID)
	return created, nil
}

// UpdateLabel handles label updates. Renaming onto an existing name is
// rejected with ErrDuplicateName.
func (s *service) UpdateLabel(ctx context.Context, req UpdateLabelRequest) (*models.Label, error) {
	if req.ID == "" {
		return nil, ErrInvalidLabelID
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Color != nil && *req.Color != "" && !hexColorRegex.MatchString(*req.Color) {
		return nil, ErrInvalidColor
	}

	label, err := s.repo.GetLabelByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}

	if req.Name != nil {
		label.Name = *req.Name
	}
	if req.Color != nil {
		label.Color = *req.Color
	}
	if req.IsFavorite != nil {
		label.IsFavorite = *req.IsFavorite
	}

	if err := s.repo.UpdateLabel(ctx, label); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update label: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventLabelUpdated, label.ID)
	return label, nil
}

// DeleteLabel removes a label. The item-label join rows cascade away;
// items themselves are untouched.
func (s *service) DeleteLabel(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidLabelID
	}

	if err := s.repo.DeleteLabel(ctx, id); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}

	events.PublishEntity(s.eventClient, events.EventLabelDeleted, id)
	return nil
}

// GetAllLabels retrieves every label
func (s *service) GetAllLabels(ctx context.Context) ([]*models.Label, error) {
	return s.repo.GetAllLabels(ctx)
}

// GetLabel retrieves a single label
func (s *service) GetLabel(ctx context.Context, id string) (*models.Label, error) {
	if id == "" {
		return nil, ErrInvalidLabelID
	}
	return s.repo.GetLabelByID(ctx, id)
}

// GetLabelByName retrieves a label by its unique name
func (s *service) GetLabelByName(ctx context.Context, name string) (*models.Label, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return s.repo.GetLabelByName(ctx, name)
}

// GetLabelsForItem retrieves the labels attached to an item
func (s *service) GetLabelsForItem(ctx context.Context, itemID string) ([]*models.Label, error) {
	if itemID == "" {
		return nil, ErrInvalidLabelID
	}
	return s.repo.GetLabelsForItem(ctx, itemID)
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
