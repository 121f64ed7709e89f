package resolve

import (
	"strings"

	"ballotguide/internal/ballot/models"
	"ballotguide/internal/ballot/normalize"
)

// CandidateMatch pairs a candidate with its position inside its contest's
// candidate list at resolve time.
type CandidateMatch struct {
	Index     int
	Candidate *models.Candidate
}

// ContestCandidates is a resolved contest together with the candidates in it
// that matched the utterance.
type ContestCandidates struct {
	Contest    ContestMatch
	Candidates []CandidateMatch
}

// FindCandidates searches every contest for candidates matching the
// utterance. Contests with no matching candidate are omitted.
func FindCandidates(contests []models.Contest, input string, hints models.Hints) []ContestCandidates {
	queries := nonEmpty(
		normalize.Normalize(hints.Candidate),
		normalize.Normalize(hints.Query),
		normalize.Normalize(input),
	)

	var results []ContestCandidates
	for i := range contests {
		candidates := findCandidatesInContest(contests[i].Candidates, queries)
		if len(candidates) == 0 {
			continue
		}
		results = append(results, ContestCandidates{
			Contest:    ContestMatch{Index: i, Contest: &contests[i]},
			Candidates: candidates,
		})
	}
	return results
}

// findCandidatesInContest runs a full exact-name pass over every query
// before any substring pass, so "Smith" names the candidate literally
// called Smith even when another candidate's name contains smith.
func findCandidatesInContest(candidates []models.Candidate, queries []string) []CandidateMatch {
	for _, query := range queries {
		if matches := filterCandidates(candidates, func(name string) bool { return name == query }); len(matches) > 0 {
			return matches
		}
	}
	for _, query := range queries {
		if matches := filterCandidates(candidates, func(name string) bool { return strings.Contains(name, query) }); len(matches) > 0 {
			return matches
		}
	}
	return nil
}

func filterCandidates(candidates []models.Candidate, keep func(normalizedName string) bool) []CandidateMatch {
	var matches []CandidateMatch
	for i := range candidates {
		if keep(normalize.Normalize(candidates[i].Name)) {
			matches = append(matches, CandidateMatch{Index: i, Candidate: &candidates[i]})
		}
	}
	return matches
}
