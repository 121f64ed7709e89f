package merge

import (
	"ballotguide/internal/ballot/identity"
	"ballotguide/internal/ballot/models"
)

// BuildSupplements extracts favorite-id map updates from an election whose
// candidates have acquired canonical ids. Every favorite id a candidate has
// ever been seen under maps to the candidate's canonical id, grouped by the
// election-id segment the favorite id was built from — one supplement per
// underlying real-world election.
//
// The result is merged into the supplement store, not written wholesale:
// supplements accumulate across fetches and election cycles.
func BuildSupplements(e *models.Election) map[string]models.Supplement {
	updates := make(map[string]models.Supplement)
	if e == nil {
		return updates
	}

	for _, contest := range e.Contests {
		for _, cand := range contest.Candidates {
			if cand.CanonicalID == "" || len(cand.FavIDs) == 0 {
				continue
			}
			for _, favID := range cand.FavIDs {
				electionID := identity.ElectionID(favID)
				supp, ok := updates[electionID]
				if !ok {
					supp = models.Supplement{FavIDMap: make(map[string]string)}
					updates[electionID] = supp
				}
				supp.FavIDMap[favID] = cand.CanonicalID
			}
		}
	}

	return updates
}
