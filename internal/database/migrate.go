package database

import (
	"context"
	"fmt"
	"log/slog"
)

const schema = `
CREATE TABLE IF NOT EXISTS image_posts (
	id         BIGSERIAL PRIMARY KEY,
	filename   TEXT NOT NULL UNIQUE,
	caption    TEXT,
	likes      INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_image_posts_created_at ON image_posts (created_at DESC, id DESC);
`

// Migrate creates the tables the API needs if they do not exist.
func Migrate(ctx context.Context, db Service) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create image_posts table: %w", err)
	}
	slog.Info("Migrations executed successfully")
	return nil
}
