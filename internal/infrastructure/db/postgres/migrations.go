package postgres

import (
	"context"
	"fmt"
)

// Constraint names are matched when translating unique violations.
const (
	constraintUsername = "users_username_key"
	constraintEmail    = "users_email_key"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		first_name VARCHAR(255) NOT NULL DEFAULT '',
		last_name VARCHAR(255) NOT NULL DEFAULT '',
		roles TEXT[] NOT NULL DEFAULT '{USER}',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		CONSTRAINT users_username_key UNIQUE (username),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,

	`ALTER TABLE users ADD COLUMN IF NOT EXISTS provisioning_status VARCHAR(32) NOT NULL DEFAULT 'LOCAL_ONLY'`,

	`CREATE INDEX IF NOT EXISTS idx_users_provisioning_status ON users (provisioning_status, updated_at)`,
}

// Migrate applies every schema statement in order. Each statement is idempotent.
func Migrate(ctx context.Context, db DB) error {
	for i, migration := range migrations {
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
