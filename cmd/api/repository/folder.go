package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noteful/api/cmd/api/models"
	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/db"
)

// FolderRepository handles database operations for folders
type FolderRepository struct {
	db *db.DB
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(db *db.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create inserts a new folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := `
		INSERT INTO folders (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		folder.ID,
		folder.UserID,
		folder.Name,
	).Scan(&folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.DuplicateName("The folder name already exists")
		}
		return fmt.Errorf("failed to create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder owned by the given user
func (r *FolderRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Folder, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM folders
		WHERE id = $1 AND user_id = $2
	`

	folder := &models.Folder{}
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("folder not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}

	return folder, nil
}

// List retrieves all folders owned by the given user
func (r *FolderRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Folder, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM folders
		WHERE user_id = $1
		ORDER BY name DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	folders := []*models.Folder{}
	for rows.Next() {
		folder := &models.Folder{}
		err := rows.Scan(
			&folder.ID,
			&folder.UserID,
			&folder.Name,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folders: %w", err)
	}

	return folders, nil
}

// UpdateName renames a folder owned by the given user
func (r *FolderRepository) UpdateName(ctx context.Context, id, userID uuid.UUID, name string) (*models.Folder, error) {
	query := `
		UPDATE folders
		SET name = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, created_at, updated_at
	`

	folder := &models.Folder{}
	err := r.db.QueryRow(ctx, query, id, userID, name).Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("folder not found")
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.DuplicateName("The folder name already exists")
		}
		return nil, fmt.Errorf("failed to update folder: %w", err)
	}

	return folder, nil
}

// Delete removes a folder owned by the given user
func (r *FolderRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM folders WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("folder not found")
	}

	return nil
}

// Exists reports whether a folder with the given id is owned by the
// given user
func (r *FolderRepository) Exists(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM folders WHERE id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check folder existence: %w", err)
	}

	return exists, nil
}
