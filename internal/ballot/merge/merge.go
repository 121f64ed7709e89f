// Package merge reconciles the two source Elections into the single upcoming
// election persisted per user.
//
// The authoritative snapshot is the ballot of record but is often incomplete:
// no contests yet, or candidate names that lag behind later canonicalization.
// The secondary snapshot is comprehensive on jurisdiction and candidate
// metadata but not authoritative on ballot contents. The merge therefore
// keeps the authoritative ballot and enriches its candidates from the
// secondary side, using the favorite-id supplement to recognize the same
// real-world candidate behind differently-shaped identities.
package merge

import (
	"ballotguide/internal/ballot/models"
)

// Collision records two authoritative candidates ending up with one rewritten
// favorite id. This is a data-quality condition for the caller to surface,
// never something the merge resolves silently.
type Collision struct {
	Contest string
	FavID   string
}

// Stats reports what a merge did, for logging and metrics.
type Stats struct {
	Rewrites   int
	Enriched   int
	Collisions []Collision
}

// Elections merges an authoritative and a secondary Election plus the
// persisted favorite-id supplement. Either input may be nil. Inputs are not
// mutated; re-running on the same snapshots and supplement yields the same
// result.
//
// Contests are taken from at most one source: the authoritative ballot when
// it has any, otherwise the secondary ballot is adopted wholesale — and only
// when both snapshots describe the same address, so a user who moved between
// fetches never sees ballot data mixed across addresses.
func Elections(authoritative, secondary *models.Election, supplement *models.Supplement) (*models.Election, Stats) {
	var stats Stats

	if authoritative == nil {
		return secondary, stats
	}

	merged := cloneElection(authoritative)
	sameAddress := secondary != nil && secondary.Address == merged.Address

	if merged.Contests == nil {
		if sameAddress && secondary.HasContests() {
			merged.Contests = cloneContests(secondary.Contests)
		}
	} else if supplement != nil && len(supplement.FavIDMap) > 0 {
		lookup := secondaryCandidates(secondary, sameAddress)

		for ci := range merged.Contests {
			contest := &merged.Contests[ci]
			seen := make(map[string]bool)
			for i := range contest.Candidates {
				cand := &contest.Candidates[i]

				if canonical, ok := supplement.FavIDMap[cand.FavID]; ok && canonical != cand.FavID {
					cand.OldFavID = cand.FavID
					cand.FavID = canonical
					stats.Rewrites++
				}

				if match, ok := lookup[cand.FavID]; ok {
					oldFavID := cand.OldFavID
					*cand = *match
					cand.OldFavID = oldFavID
					contest.Division = match.Division
					stats.Enriched++
				}

				if seen[cand.FavID] {
					stats.Collisions = append(stats.Collisions, Collision{
						Contest: contest.Name,
						FavID:   cand.FavID,
					})
				}
				seen[cand.FavID] = true
			}
		}
	}

	if merged.HasInfo() || secondary == nil || (sameAddress && !secondary.HasInfo()) {
		return merged, stats
	}
	return secondary, stats
}

// secondaryCandidates indexes every secondary candidate by favorite id. The
// index is only built when the secondary snapshot describes the same address
// as the authoritative one; enrichment across addresses is never allowed.
func secondaryCandidates(secondary *models.Election, sameAddress bool) map[string]*models.Candidate {
	lookup := make(map[string]*models.Candidate)
	if secondary == nil || !sameAddress || !secondary.HasContests() {
		return lookup
	}
	for ci := range secondary.Contests {
		for i := range secondary.Contests[ci].Candidates {
			cand := &secondary.Contests[ci].Candidates[i]
			lookup[cand.FavID] = cand
		}
	}
	return lookup
}

func cloneElection(e *models.Election) *models.Election {
	out := *e
	if e.Contests != nil {
		out.Contests = cloneContests(e.Contests)
	}
	if e.VotingLocations != nil {
		out.VotingLocations = append([]models.VotingLocation(nil), e.VotingLocations...)
	}
	if e.Info != nil {
		info := *e.Info
		out.Info = &info
	}
	return &out
}

func cloneContests(contests []models.Contest) []models.Contest {
	out := make([]models.Contest, len(contests))
	for i, contest := range contests {
		out[i] = contest
		out[i].Candidates = append([]models.Candidate(nil), contest.Candidates...)
	}
	return out
}
