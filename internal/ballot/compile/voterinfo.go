// Package compile transforms provider responses into the internal Election
// shape. Each source pipeline has its own compiler; the reconciler in
// internal/ballot/merge combines their outputs.
package compile

import (
	"strings"

	"ballotguide/internal/ballot/identity"
	"ballotguide/internal/ballot/models"
	"ballotguide/internal/civic"
)

// FromVoterInfo compiles Provider A's response into an authoritative
// Election snapshot. Contest names come from the office or the referendum
// title; referendum ballot responses are modeled as candidates so the
// resolver treats them uniformly. Favorite ids are stamped here, at compile
// time, from the authoritative key shape.
func FromVoterInfo(resp *civic.VoterInfoResponse, address, lang string) *models.Election {
	if resp == nil {
		return nil
	}

	election := &models.Election{
		Source:  models.SourceVoterInfo,
		Lang:    lang,
		Address: address,
	}

	var electionID string
	if resp.Election != nil {
		electionID = resp.Election.ID
		election.Info = &models.ElectionInfo{
			ID:   resp.Election.ID,
			Name: resp.Election.Name,
			Day:  strings.ReplaceAll(resp.Election.ElectionDay, "-", ""),
		}
	}

	for _, c := range resp.Contests {
		name := c.ReferendumTitle
		if c.Office != "" {
			name = c.Office
		}

		contest := models.Contest{Name: name}

		for _, cand := range c.Candidates {
			contest.Candidates = append(contest.Candidates, models.Candidate{
				Name:  cand.Name,
				Party: cand.Party,
				FavID: identity.BallotFavID(electionID, c.District.Name, name, cand.Name),
			})
		}
		for _, response := range c.ReferendumBallotResponses {
			contest.Candidates = append(contest.Candidates, models.Candidate{
				Name:  response,
				FavID: identity.BallotFavID(electionID, c.District.Name, name, response),
			})
		}

		election.Contests = append(election.Contests, contest)
	}

	election.VotingLocations = MergeVotingLocations(
		resp.PollingLocations, resp.DropOffLocations, resp.EarlyVoteSites)

	return election
}
