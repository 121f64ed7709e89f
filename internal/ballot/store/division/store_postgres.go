package division

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ballotguide/internal/ballot/models"
	"ballotguide/pkg/requestcontext"
)

// PostgresStore persists the election index. Contests travel as a JSONB
// column; the day stays a plain text column so range scans work on the
// lexically sortable day encoding.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed division index.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ReplaceAll rebuilds the index inside one transaction so readers never see
// a half-replaced index.
func (s *PostgresStore) ReplaceAll(ctx context.Context, elections []models.DivisionElection, refreshedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin index replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM division_elections`); err != nil {
		return fmt.Errorf("clear division elections: %w", err)
	}
	for _, e := range elections {
		contests, err := json.Marshal(e.Contests)
		if err != nil {
			return fmt.Errorf("encode contests for %s: %w", e.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO division_elections (id, name, election_day, division, contests, refreshed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, e.ID, e.Name, e.ElectionDay, e.Division, contests, refreshedAt)
		if err != nil {
			return fmt.Errorf("insert division election %s: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index replace: %w", err)
	}
	return nil
}

func (s *PostgresStore) Upcoming(ctx context.Context) ([]models.DivisionElection, error) {
	today := requestcontext.Now(ctx).Format(DayFormat)
	return s.query(ctx, `
		SELECT id, name, election_day, division, contests
		FROM division_elections
		WHERE election_day >= $1
		ORDER BY election_day, id
	`, today)
}

func (s *PostgresStore) ByDay(ctx context.Context, day string) ([]models.DivisionElection, error) {
	return s.query(ctx, `
		SELECT id, name, election_day, division, contests
		FROM division_elections
		WHERE election_day = $1
		ORDER BY election_day, id
	`, day)
}

func (s *PostgresStore) RefreshedAt(ctx context.Context) (time.Time, error) {
	var refreshedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(refreshed_at) FROM division_elections`,
	).Scan(&refreshedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("index refreshed at: %w", err)
	}
	if !refreshedAt.Valid {
		return time.Time{}, nil
	}
	return refreshedAt.Time, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]models.DivisionElection, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query division elections: %w", err)
	}
	defer rows.Close()

	var elections []models.DivisionElection
	for rows.Next() {
		var e models.DivisionElection
		var contests []byte
		if err := rows.Scan(&e.ID, &e.Name, &e.ElectionDay, &e.Division, &contests); err != nil {
			return nil, fmt.Errorf("scan division election: %w", err)
		}
		if err := json.Unmarshal(contests, &e.Contests); err != nil {
			return nil, fmt.Errorf("decode contests for %s: %w", e.ID, err)
		}
		elections = append(elections, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate division elections: %w", err)
	}
	return elections, nil
}
