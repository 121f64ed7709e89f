package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ballotguide/internal/ballot/models"
	"ballotguide/pkg/platform/sentinel"
)

// Document kinds within ballot_user_documents. Each user owns at most one
// row per kind; every write is an upsert.
const (
	kindTrigger  = "trigger"
	kindElection = "election"
)

// PostgresStore persists user ballot records as JSONB documents.
// This store is pure I/O; staleness and merge rules belong in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveTrigger(ctx context.Context, userID string, trigger models.AddressTrigger) error {
	return s.save(ctx, userID, kindTrigger, trigger)
}

func (s *PostgresStore) Trigger(ctx context.Context, userID string) (*models.AddressTrigger, error) {
	var trigger models.AddressTrigger
	if err := s.load(ctx, userID, kindTrigger, &trigger); err != nil {
		return nil, err
	}
	return &trigger, nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, userID string, election *models.Election) error {
	if election == nil || election.Source == "" {
		return fmt.Errorf("snapshot requires a sourced election")
	}
	return s.save(ctx, userID, snapshotKind(election.Source), election)
}

func (s *PostgresStore) Snapshot(ctx context.Context, userID string, source models.Source) (*models.Election, error) {
	var election models.Election
	if err := s.load(ctx, userID, snapshotKind(source), &election); err != nil {
		return nil, err
	}
	return &election, nil
}

func (s *PostgresStore) SaveElection(ctx context.Context, userID string, election *models.Election) error {
	if election == nil {
		return fmt.Errorf("election is required")
	}
	return s.save(ctx, userID, kindElection, election)
}

func (s *PostgresStore) Election(ctx context.Context, userID string) (*models.Election, error) {
	var election models.Election
	if err := s.load(ctx, userID, kindElection, &election); err != nil {
		return nil, err
	}
	return &election, nil
}

func (s *PostgresStore) Clear(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM ballot_user_documents WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear user documents: %w", err)
	}
	return nil
}

func (s *PostgresStore) save(ctx context.Context, userID, kind string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", kind, err)
	}
	query := `
		INSERT INTO ballot_user_documents (user_id, doc_kind, body, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, doc_kind) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, userID, kind, body); err != nil {
		return fmt.Errorf("save %s document: %w", kind, err)
	}
	return nil
}

func (s *PostgresStore) load(ctx context.Context, userID, kind string, doc any) error {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM ballot_user_documents WHERE user_id = $1 AND doc_kind = $2`,
		userID, kind,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load %s document: %w", kind, err)
	}
	if err := json.Unmarshal(body, doc); err != nil {
		return fmt.Errorf("decode %s document: %w", kind, err)
	}
	return nil
}

func snapshotKind(source models.Source) string {
	return "source:" + string(source)
}
