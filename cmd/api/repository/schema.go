package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/noteful/api/common/db"
)

// schema creates all tables. There are deliberately no foreign keys
// between entities: cross-entity integrity is owned by the service
// layer's ownership validator, matching the store's document-style
// contract.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY,
	username      text NOT NULL UNIQUE,
	password_hash text NOT NULL,
	fullname      text,
	created_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS folders (
	id         uuid PRIMARY KEY,
	user_id    uuid NOT NULL,
	name       text NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS tags (
	id         uuid PRIMARY KEY,
	user_id    uuid NOT NULL,
	name       text NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS notes (
	id         uuid PRIMARY KEY,
	user_id    uuid NOT NULL,
	title      text NOT NULL,
	content    text NOT NULL DEFAULT '',
	folder_id  uuid,
	tags       text[] NOT NULL DEFAULT '{}',
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS notes_user_idx ON notes (user_id);
CREATE INDEX IF NOT EXISTS notes_folder_idx ON notes (folder_id);
`

// InitSchema creates the database schema. Wired as the bootstrap DB
// init hook.
func InitSchema(database *db.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
