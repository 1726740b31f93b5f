package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account holder
// Maps to: users table
type User struct {
	ID uuid.UUID `db:"id" json:"id"`

	// Unique login name
	Username string `db:"username" json:"username"`

	// bcrypt digest, never serialized
	PasswordHash string `db:"password_hash" json:"-"`

	Fullname *string `db:"fullname" json:"fullname,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// PublicUser is the client-facing projection of a User. Credential
// fields are stripped here rather than at serialization time so no
// handler can leak them by accident.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Fullname *string   `json:"fullname,omitempty"`
}

// Public returns the client-facing projection
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.Fullname,
	}
}
