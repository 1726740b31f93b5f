package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag represents a user-owned label attachable to any number of notes
// Maps to: tags table, name unique per owner
type Tag struct {
	ID uuid.UUID `db:"id" json:"id"`

	UserID uuid.UUID `db:"user_id" json:"userId"`

	Name string `db:"name" json:"name"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
