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

// TagRepository handles database operations for tags
type TagRepository struct {
	db *db.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *db.DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a new tag
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		tag.ID,
		tag.UserID,
		tag.Name,
	).Scan(&tag.CreatedAt, &tag.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.DuplicateName("The tag name already exists")
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}

	return nil
}

// GetByID retrieves a tag owned by the given user
func (r *TagRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Tag, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM tags
		WHERE id = $1 AND user_id = $2
	`

	tag := &models.Tag{}
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&tag.ID,
		&tag.UserID,
		&tag.Name,
		&tag.CreatedAt,
		&tag.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("tag not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return tag, nil
}

// List retrieves all tags owned by the given user
func (r *TagRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.Tag, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM tags
		WHERE user_id = $1
		ORDER BY name DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []*models.Tag{}
	for rows.Next() {
		tag := &models.Tag{}
		err := rows.Scan(
			&tag.ID,
			&tag.UserID,
			&tag.Name,
			&tag.CreatedAt,
			&tag.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

// UpdateName renames a tag owned by the given user
func (r *TagRepository) UpdateName(ctx context.Context, id, userID uuid.UUID, name string) (*models.Tag, error) {
	query := `
		UPDATE tags
		SET name = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, created_at, updated_at
	`

	tag := &models.Tag{}
	err := r.db.QueryRow(ctx, query, id, userID, name).Scan(
		&tag.ID,
		&tag.UserID,
		&tag.Name,
		&tag.CreatedAt,
		&tag.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("tag not found")
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.DuplicateName("The tag name already exists")
		}
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	return tag, nil
}

// Delete removes a tag owned by the given user
func (r *TagRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM tags WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("tag not found")
	}

	return nil
}

// CountOwned counts how many of the given ids are tags owned by the
// given user. The caller compares the count against the request size;
// a shortfall never reveals which ids were at fault.
func (r *TagRepository) CountOwned(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int, error) {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	query := `SELECT count(*) FROM tags WHERE user_id = $1 AND id::text = ANY($2)`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, strs).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}

	return count, nil
}
