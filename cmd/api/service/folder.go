package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/noteful/api/cmd/api/models"
	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/logger"
)

// FolderStore is the persistence contract the folder service needs
type FolderStore interface {
	Create(ctx context.Context, folder *models.Folder) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Folder, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Folder, error)
	UpdateName(ctx context.Context, id, userID uuid.UUID, name string) (*models.Folder, error)
}

// FolderService handles folder operations
type FolderService struct {
	repo    FolderStore
	cascade *CascadeCoordinator
	log     *logger.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(repo FolderStore, cascade *CascadeCoordinator, log *logger.Logger) *FolderService {
	return &FolderService{
		repo:    repo,
		cascade: cascade,
		log:     log,
	}
}

// Create creates a folder owned by userID
func (s *FolderService) Create(ctx context.Context, userID uuid.UUID, name string) (*models.Folder, error) {
	if name == "" {
		return nil, apperr.InvalidShape("Missing `name` in request body")
	}

	folder := &models.Folder{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	}

	if err := s.repo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.log.Info("created folder", "folder_id", folder.ID, "user_id", userID)
	return folder, nil
}

// Get retrieves a folder owned by userID
func (s *FolderService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Folder, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// List retrieves all folders owned by userID
func (s *FolderService) List(ctx context.Context, userID uuid.UUID) ([]*models.Folder, error) {
	return s.repo.List(ctx, userID)
}

// Update renames a folder owned by userID
func (s *FolderService) Update(ctx context.Context, id, userID uuid.UUID, name string) (*models.Folder, error) {
	if name == "" {
		return nil, apperr.InvalidShape("Missing `name` in request body")
	}

	folder, err := s.repo.UpdateName(ctx, id, userID, name)
	if err != nil {
		return nil, err
	}

	s.log.Info("renamed folder", "folder_id", id, "user_id", userID)
	return folder, nil
}

// Delete removes a folder owned by userID and detaches it from any
// dependent notes
func (s *FolderService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.cascade.DeleteFolder(ctx, id, userID)
}
