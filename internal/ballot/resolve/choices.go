package resolve

import (
	"strings"

	"ballotguide/internal/ballot/models"
	"ballotguide/internal/ballot/normalize"
)

// ContextForContests records an ambiguous contest resolution so a follow-up
// turn can pick one. Returns nil when there is nothing to disambiguate.
func ContextForContests(matches []ContestMatch) *models.ChoiceContext {
	if len(matches) < 2 {
		return nil
	}
	ctx := &models.ChoiceContext{Contests: make([]int, len(matches))}
	for i, m := range matches {
		ctx.Contests[i] = m.Index
	}
	return ctx
}

// ContextForCandidates records a single contest whose candidates need
// narrowing. The contest position is kept even when only one candidate
// matched, so a bare confirmation can land on it.
func ContextForCandidates(contest ContestMatch, candidates []CandidateMatch) *models.ChoiceContext {
	if len(candidates) == 0 {
		return nil
	}
	index := contest.Index
	ctx := &models.ChoiceContext{
		Contest:    &index,
		Candidates: make([]int, len(candidates)),
	}
	for i, c := range candidates {
		ctx.Candidates[i] = c.Index
	}
	return ctx
}

// ContestsFrom replays a stored contest choice set against the election as
// it stands now. Positions that no longer exist (the ballot was refreshed
// underneath the conversation) invalidate the whole context.
func ContestsFrom(e *models.Election, ctx *models.ChoiceContext) ([]ContestMatch, bool) {
	if e == nil || ctx == nil || !ctx.HasContests() {
		return nil, false
	}
	matches := make([]ContestMatch, 0, len(ctx.Contests))
	for _, idx := range ctx.Contests {
		if idx < 0 || idx >= len(e.Contests) {
			return nil, false
		}
		matches = append(matches, ContestMatch{Index: idx, Contest: &e.Contests[idx]})
	}
	return matches, true
}

// CandidatesFrom replays a stored candidate choice set, with the same
// staleness rule as ContestsFrom.
func CandidatesFrom(e *models.Election, ctx *models.ChoiceContext) (ContestCandidates, bool) {
	if e == nil || ctx == nil || ctx.Contest == nil || !ctx.HasCandidates() {
		return ContestCandidates{}, false
	}
	ci := *ctx.Contest
	if ci < 0 || ci >= len(e.Contests) {
		return ContestCandidates{}, false
	}
	contest := &e.Contests[ci]
	result := ContestCandidates{
		Contest:    ContestMatch{Index: ci, Contest: contest},
		Candidates: make([]CandidateMatch, 0, len(ctx.Candidates)),
	}
	for _, idx := range ctx.Candidates {
		if idx < 0 || idx >= len(contest.Candidates) {
			return ContestCandidates{}, false
		}
		result.Candidates = append(result.Candidates, CandidateMatch{Index: idx, Candidate: &contest.Candidates[idx]})
	}
	return result, true
}

// ChooseOrdinal selects "the first one" / "number two" from a pending
// choice. Ordinals are 1-based. Against a contest choice set the ordinal
// picks a contest and yields all of its candidates; against a candidate
// choice set it picks one candidate.
func ChooseOrdinal(e *models.Election, ctx *models.ChoiceContext, ordinal int) (ContestCandidates, bool) {
	if pending, ok := CandidatesFrom(e, ctx); ok {
		if ordinal < 1 || ordinal > len(pending.Candidates) {
			return ContestCandidates{}, false
		}
		pending.Candidates = pending.Candidates[ordinal-1 : ordinal]
		return pending, true
	}
	contests, ok := ContestsFrom(e, ctx)
	if !ok || ordinal < 1 || ordinal > len(contests) {
		return ContestCandidates{}, false
	}
	chosen := contests[ordinal-1]
	return ContestCandidates{
		Contest:    chosen,
		Candidates: AllCandidates(chosen.Contest),
	}, true
}

// ChooseParty narrows a pending candidate choice by party. The utterance
// may carry either a party code or a full party name; both sides are
// compared through the normalizer. Ambiguity (two stored candidates of the
// same party) does not pick.
func ChooseParty(e *models.Election, ctx *models.ChoiceContext, party string) (ContestCandidates, bool) {
	pending, ok := CandidatesFrom(e, ctx)
	if !ok {
		return ContestCandidates{}, false
	}
	wanted := partyForms(party)
	if len(wanted) == 0 {
		return ContestCandidates{}, false
	}
	var picked []CandidateMatch
	for _, c := range pending.Candidates {
		if overlaps(partyForms(c.Candidate.Party), wanted) {
			picked = append(picked, c)
		}
	}
	if len(picked) != 1 {
		return ContestCandidates{}, false
	}
	pending.Candidates = picked
	return pending, true
}

// Confirm resolves a bare "yes" follow-up. It is only meaningful when the
// pending choice already narrowed to exactly one candidate.
func Confirm(e *models.Election, ctx *models.ChoiceContext) (ContestCandidates, bool) {
	if pending, ok := CandidatesFrom(e, ctx); ok && len(pending.Candidates) == 1 {
		return pending, true
	}
	return ContestCandidates{}, false
}

// partyForms lists the normalized spellings a party value answers to: the
// value itself plus its full name when the value is a known party code.
// "REP", "rep", and "Republican" all collapse to the same set.
func partyForms(party string) []string {
	return nonEmpty(
		normalize.Normalize(party),
		normalize.Normalize(normalize.PartyName(strings.ToUpper(strings.TrimSpace(party)))),
	)
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// AllCandidates indexes every candidate of a contest.
func AllCandidates(contest *models.Contest) []CandidateMatch {
	matches := make([]CandidateMatch, len(contest.Candidates))
	for i := range contest.Candidates {
		matches[i] = CandidateMatch{Index: i, Candidate: &contest.Candidates[i]}
	}
	return matches
}
