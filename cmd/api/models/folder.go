package models

import (
	"time"

	"github.com/google/uuid"
)

// Folder represents a user-owned note container
// Maps to: folders table, name unique per owner
type Folder struct {
	ID uuid.UUID `db:"id" json:"id"`

	// Owning user; every query is scoped by this
	UserID uuid.UUID `db:"user_id" json:"userId"`

	Name string `db:"name" json:"name"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
