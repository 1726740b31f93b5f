package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noteful/api/cmd/api/models"
	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/db"
)

// NoteFilter holds the optional, composable list filters. Every
// filter is AND-ed with the mandatory owner scope.
type NoteFilter struct {
	// Case-insensitive substring matched against title or content
	SearchTerm string

	FolderID *uuid.UUID
	TagID    *uuid.UUID
}

// NoteRepository handles database operations for notes
type NoteRepository struct {
	db *db.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *db.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `id, user_id, title, content, folder_id, tags, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	note := &models.Note{}
	var tagStrs []string

	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&note.FolderID,
		&tagStrs,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	note.Tags = make([]uuid.UUID, 0, len(tagStrs))
	for _, s := range tagStrs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("corrupt tag reference %q: %w", s, err)
		}
		note.Tags = append(note.Tags, id)
	}

	return note, nil
}

func tagStrings(ids []uuid.UUID) []string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return strs
}

// Create inserts a new note
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (id, user_id, title, content, folder_id, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.FolderID,
		tagStrings(note.Tags),
	).Scan(&note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// GetByID retrieves a note owned by the given user
func (r *NoteRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`

	note, err := scanNote(r.db.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("note not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// escapeLike escapes LIKE metacharacters so the search term matches
// as a literal substring
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// List retrieves the notes owned by the given user matching the filter
func (r *NoteRepository) List(ctx context.Context, userID uuid.UUID, filter NoteFilter) ([]*models.Note, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if filter.SearchTerm != "" {
		pattern := "%" + escapeLike(filter.SearchTerm) + "%"
		args = append(args, pattern)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", n, n))
	}

	if filter.FolderID != nil {
		args = append(args, *filter.FolderID)
		conds = append(conds, fmt.Sprintf("folder_id = $%d", len(args)))
	}

	if filter.TagID != nil {
		args = append(args, filter.TagID.String())
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

// Update writes the full mutable field set of a note owned by the
// given user. Partial-update semantics are resolved by the service
// before this call; the repository is last-write-wins.
func (r *NoteRepository) Update(ctx context.Context, note *models.Note) (*models.Note, error) {
	query := `
		UPDATE notes
		SET title = $3, content = $4, folder_id = $5, tags = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + noteColumns

	updated, err := scanNote(r.db.QueryRow(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.FolderID,
		tagStrings(note.Tags),
	))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("note not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return updated, nil
}

// Delete removes a note owned by the given user
func (r *NoteRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("note not found")
	}

	return nil
}

// DetachFolder bulk-unsets the folder reference on every note of the
// given user that referenced the given folder. Returns the number of
// notes touched. Owner scoping keeps a rejected cross-user delete
// from ever touching the real owner's notes.
func (r *NoteRepository) DetachFolder(ctx context.Context, folderID, userID uuid.UUID) (int64, error) {
	query := `
		UPDATE notes
		SET folder_id = NULL, updated_at = now()
		WHERE folder_id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query, folderID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to detach folder from notes: %w", err)
	}

	return result.RowsAffected(), nil
}

// DetachTag bulk-removes the tag id from the tag set of every note of
// the given user. Returns the number of notes touched.
func (r *NoteRepository) DetachTag(ctx context.Context, tagID, userID uuid.UUID) (int64, error) {
	query := `
		UPDATE notes
		SET tags = array_remove(tags, $1), updated_at = now()
		WHERE $1 = ANY(tags) AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query, tagID.String(), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to detach tag from notes: %w", err)
	}

	return result.RowsAffected(), nil
}
