package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/noteful/api/cmd/api/models"
	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/logger"
)

// TagStore is the persistence contract the tag service needs
type TagStore interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Tag, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Tag, error)
	UpdateName(ctx context.Context, id, userID uuid.UUID, name string) (*models.Tag, error)
}

// TagService handles tag operations
type TagService struct {
	repo    TagStore
	cascade *CascadeCoordinator
	log     *logger.Logger
}

// NewTagService creates a new tag service
func NewTagService(repo TagStore, cascade *CascadeCoordinator, log *logger.Logger) *TagService {
	return &TagService{
		repo:    repo,
		cascade: cascade,
		log:     log,
	}
}

// Create creates a tag owned by userID
func (s *TagService) Create(ctx context.Context, userID uuid.UUID, name string) (*models.Tag, error) {
	if name == "" {
		return nil, apperr.InvalidShape("Missing `name` in request body")
	}

	tag := &models.Tag{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.log.Info("created tag", "tag_id", tag.ID, "user_id", userID)
	return tag, nil
}

// Get retrieves a tag owned by userID
func (s *TagService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Tag, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// List retrieves all tags owned by userID
func (s *TagService) List(ctx context.Context, userID uuid.UUID) ([]*models.Tag, error) {
	return s.repo.List(ctx, userID)
}

// Update renames a tag owned by userID
func (s *TagService) Update(ctx context.Context, id, userID uuid.UUID, name string) (*models.Tag, error) {
	if name == "" {
		return nil, apperr.InvalidShape("Missing `name` in request body")
	}

	tag, err := s.repo.UpdateName(ctx, id, userID, name)
	if err != nil {
		return nil, err
	}

	s.log.Info("renamed tag", "tag_id", id, "user_id", userID)
	return tag, nil
}

// Delete removes a tag owned by userID and strips it from any
// dependent notes
func (s *TagService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.cascade.DeleteTag(ctx, id, userID)
}
