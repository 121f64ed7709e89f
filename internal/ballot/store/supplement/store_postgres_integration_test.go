//go:build integration

package supplement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"ballotguide/internal/ballot/models"
	"ballotguide/internal/ballot/store/schema"
	"ballotguide/internal/ballot/store/supplement"
	"ballotguide/pkg/platform/sentinel"
	"ballotguide/pkg/testutil/containers"
)

type PostgresSupplementStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *supplement.PostgresStore
}

func TestPostgresSupplementStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSupplementStoreSuite))
}

func (s *PostgresSupplementStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(schema.Apply(context.Background(), s.pg.DB))
	s.store = supplement.NewPostgres(s.pg.DB)
}

func (s *PostgresSupplementStoreSuite) SetupTest() {
	_, err := s.pg.DB.Exec(`TRUNCATE ballot_supplements`)
	s.Require().NoError(err)
}

func (s *PostgresSupplementStoreSuite) TestMergeConcatenatesInDatabase() {
	ctx := context.Background()

	s.Require().NoError(s.store.Merge(ctx, "2000", models.Supplement{FavIDMap: map[string]string{
		"old-a": "new-a",
	}}))
	s.Require().NoError(s.store.Merge(ctx, "2000", models.Supplement{FavIDMap: map[string]string{
		"old-b": "new-b",
		"old-a": "newer-a",
	}}))

	got, err := s.store.Get(ctx, "2000")
	s.Require().NoError(err)
	s.Equal(map[string]string{"old-a": "newer-a", "old-b": "new-b"}, got.FavIDMap)
}

func (s *PostgresSupplementStoreSuite) TestEmptyMergeIsNoOp() {
	ctx := context.Background()

	s.Require().NoError(s.store.Merge(ctx, "2000", models.Supplement{}))

	_, err := s.store.Get(ctx, "2000")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
