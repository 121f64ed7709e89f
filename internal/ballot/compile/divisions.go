package compile

import (
	"sort"

	"ballotguide/internal/ballot/identity"
	"ballotguide/internal/ballot/models"
)

// FromDivisions compiles per-division election snapshots into a secondary
// Election: the chronologically nearest election day across the divisions
// wins, every snapshot on a different day is discarded, and the survivors'
// contests are flattened in division order so repeated compiles of the same
// snapshots produce identical contest ordering.
//
// Snapshots without contests are dropped before the day is chosen: a
// division that knows an election day but carries no ballot content cannot
// anchor the nearest-day selection.
func FromDivisions(snapshots []models.DivisionElection, address, lang string) *models.Election {
	election := &models.Election{
		Source:  models.SourceDivisions,
		Lang:    lang,
		Address: address,
	}

	withContests := make([]models.DivisionElection, 0, len(snapshots))
	for _, snap := range snapshots {
		if len(snap.Contests) > 0 {
			withContests = append(withContests, snap)
		}
	}

	var upcoming *models.DivisionElection
	for i := range withContests {
		if upcoming == nil || withContests[i].ElectionDay < upcoming.ElectionDay {
			upcoming = &withContests[i]
		}
	}
	if upcoming == nil {
		return election
	}

	day := upcoming.ElectionDay
	sameDay := make([]models.DivisionElection, 0, len(withContests))
	for _, snap := range withContests {
		if snap.ElectionDay == day {
			sameDay = append(sameDay, snap)
		}
	}
	sort.Slice(sameDay, func(i, j int) bool {
		return sameDay[i].Division < sameDay[j].Division
	})

	for _, snap := range sameDay {
		for _, contest := range snap.Contests {
			contest.Division = snap.Division
			if contest.Params == nil {
				contest.Params = ParamsFromDivision(snap.Division)
			}

			candidates := make([]models.Candidate, len(contest.Candidates))
			for i, cand := range contest.Candidates {
				cand.FavID = identity.DivisionsFavID(day, snap.Division, contest.ID, cand.ID)
				cand.Division = snap.Division
				candidates[i] = cand
			}
			contest.Candidates = candidates

			election.Contests = append(election.Contests, contest)
		}
	}

	election.Info = &models.ElectionInfo{
		Day:  day,
		Name: upcoming.Name,
	}

	return election
}

// StampCanonicalIDs assigns the durable identity to every candidate in a
// division snapshot. Called when the snapshot is published into the election
// index; the reconciler later rewrites authoritative favorite ids to these
// values through the supplement.
func StampCanonicalIDs(snap *models.DivisionElection) {
	for ci := range snap.Contests {
		contest := &snap.Contests[ci]
		for i := range contest.Candidates {
			cand := &contest.Candidates[i]
			cand.CanonicalID = identity.Canonical(snap.ElectionDay, snap.Division, contest.ID, cand.ID)
		}
	}
}
