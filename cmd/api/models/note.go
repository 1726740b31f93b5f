package models

import (
	"time"

	"github.com/google/uuid"
)

// Note represents a user-owned note
// Maps to: notes table. The folder and tag references are plain ids
// with no store-level foreign keys; the ownership validator is the
// only thing keeping them consistent.
type Note struct {
	ID uuid.UUID `db:"id" json:"id"`

	UserID uuid.UUID `db:"user_id" json:"userId"`

	Title   string `db:"title" json:"title"`
	Content string `db:"content" json:"content"`

	// Optional containing folder, nil when detached
	FolderID *uuid.UUID `db:"folder_id" json:"folderId"`

	// Attached tag ids, possibly empty
	Tags []uuid.UUID `db:"tags" json:"tags"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
