package supplement

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ballotguide/internal/ballot/models"
	"ballotguide/pkg/platform/sentinel"
)

// PostgresStore persists supplements as one JSONB map per election. The
// merge is done in the database with the JSONB concatenation operator so
// concurrent publications cannot drop each other's mappings.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed supplement store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Merge(ctx context.Context, electionID string, supplement models.Supplement) error {
	if len(supplement.FavIDMap) == 0 {
		return nil
	}
	body, err := json.Marshal(supplement.FavIDMap)
	if err != nil {
		return fmt.Errorf("encode supplement: %w", err)
	}
	query := `
		INSERT INTO ballot_supplements (election_id, favid_map, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (election_id) DO UPDATE SET
			favid_map = ballot_supplements.favid_map || EXCLUDED.favid_map,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, electionID, body); err != nil {
		return fmt.Errorf("merge supplement: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, electionID string) (*models.Supplement, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT favid_map FROM ballot_supplements WHERE election_id = $1`,
		electionID,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get supplement: %w", err)
	}
	supplement := &models.Supplement{FavIDMap: make(map[string]string)}
	if err := json.Unmarshal(body, &supplement.FavIDMap); err != nil {
		return nil, fmt.Errorf("decode supplement: %w", err)
	}
	return supplement, nil
}
