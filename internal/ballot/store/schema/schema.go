// Package schema owns the PostgreSQL DDL for the ballot stores. The
// statements are idempotent; the server applies them at startup and the
// integration suites apply them against throwaway containers.
package schema

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS ballot_user_documents (
		user_id    TEXT        NOT NULL,
		doc_kind   TEXT        NOT NULL,
		body       JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, doc_kind)
	)`,
	`CREATE TABLE IF NOT EXISTS ballot_supplements (
		election_id TEXT        PRIMARY KEY,
		favid_map   JSONB       NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS division_elections (
		id           TEXT        NOT NULL,
		name         TEXT        NOT NULL DEFAULT '',
		election_day TEXT        NOT NULL,
		division     TEXT        NOT NULL DEFAULT '',
		contests     JSONB       NOT NULL,
		refreshed_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (id)
	)`,
	`CREATE INDEX IF NOT EXISTS division_elections_day_idx
		ON division_elections (election_day)`,
}

// Apply creates every ballot table that does not exist yet.
func Apply(ctx context.Context, db *sql.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
