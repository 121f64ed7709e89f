//go:build integration

package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"ballotguide/internal/ballot/models"
	"ballotguide/internal/ballot/store/schema"
	"ballotguide/internal/ballot/store/user"
	"ballotguide/pkg/platform/sentinel"
	"ballotguide/pkg/testutil/containers"
)

type PostgresUserStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *user.PostgresStore
}

func TestPostgresUserStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresUserStoreSuite))
}

func (s *PostgresUserStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(schema.Apply(context.Background(), s.pg.DB))
	s.store = user.NewPostgres(s.pg.DB)
}

func (s *PostgresUserStoreSuite) SetupTest() {
	_, err := s.pg.DB.Exec(`TRUNCATE ballot_user_documents`)
	s.Require().NoError(err)
}

func (s *PostgresUserStoreSuite) TestTriggerRoundTrip() {
	ctx := context.Background()
	trigger := models.AddressTrigger{
		Address:     "1263 Pacific Ave. Kansas City KS",
		Lang:        "en",
		RefreshedAt: 1700000000,
	}

	s.Require().NoError(s.store.SaveTrigger(ctx, "user-1", trigger))

	got, err := s.store.Trigger(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(&trigger, got)
}

func (s *PostgresUserStoreSuite) TestSnapshotsAndElectionSurviveRestartlessReload() {
	ctx := context.Background()
	voter := &models.Election{
		Source:  models.SourceVoterInfo,
		Address: "1263 Pacific Ave. Kansas City KS",
		Info:    &models.ElectionInfo{ID: "2000", Day: "20181106", Name: "General"},
		Contests: []models.Contest{{
			Name:       "Attorney General",
			Candidates: []models.Candidate{{Name: "Phil Weiser", Party: "Democratic"}},
		}},
	}

	s.Require().NoError(s.store.SaveSnapshot(ctx, "user-1", voter))
	s.Require().NoError(s.store.SaveElection(ctx, "user-1", voter))

	snapshot, err := s.store.Snapshot(ctx, "user-1", models.SourceVoterInfo)
	s.Require().NoError(err)
	s.Equal(voter, snapshot)

	election, err := s.store.Election(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(voter, election)

	_, err = s.store.Snapshot(ctx, "user-1", models.SourceDivisions)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresUserStoreSuite) TestSaveSnapshotUpserts() {
	ctx := context.Background()

	s.Require().NoError(s.store.SaveSnapshot(ctx, "user-1",
		&models.Election{Source: models.SourceVoterInfo, Address: "old"}))
	s.Require().NoError(s.store.SaveSnapshot(ctx, "user-1",
		&models.Election{Source: models.SourceVoterInfo, Address: "new"}))

	got, err := s.store.Snapshot(ctx, "user-1", models.SourceVoterInfo)
	s.Require().NoError(err)
	s.Equal("new", got.Address)
}

func (s *PostgresUserStoreSuite) TestClear() {
	ctx := context.Background()

	s.Require().NoError(s.store.SaveTrigger(ctx, "user-1", models.AddressTrigger{Address: "a"}))
	s.Require().NoError(s.store.SaveElection(ctx, "user-1", &models.Election{Address: "a"}))
	s.Require().NoError(s.store.Clear(ctx, "user-1"))

	_, err := s.store.Trigger(ctx, "user-1")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.Election(ctx, "user-1")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
