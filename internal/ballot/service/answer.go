package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ballotguide/internal/ballot/metrics"
	"ballotguide/internal/ballot/models"
	"ballotguide/internal/ballot/normalize"
	"ballotguide/internal/ballot/resolve"
	"ballotguide/pkg/platform/sentinel"
)

// AnswerKind tells the conversation layer what shape the answer has.
type AnswerKind string

const (
	// AnswerContest names one contest and lists its candidates.
	AnswerContest AnswerKind = "contest"
	// AnswerContests lists several contests for the user to pick from.
	AnswerContests AnswerKind = "contests"
	// AnswerCandidate describes exactly one candidate.
	AnswerCandidate AnswerKind = "candidate"
	// AnswerCandidates lists several matching candidates.
	AnswerCandidates AnswerKind = "candidates"
	// AnswerNone means the utterance matched nothing on the ballot.
	AnswerNone AnswerKind = "none"
)

// Answer is the structured resolver result. Text rendering happens
// upstream; this carries everything the renderer needs.
type Answer struct {
	Kind     AnswerKind           `json:"kind"`
	Election *models.ElectionInfo `json:"election,omitempty"`
	Contests []ContestAnswer      `json:"contests,omitempty"`
}

// ContestAnswer is one contest in an answer.
type ContestAnswer struct {
	Name       string            `json:"name"`
	Division   string            `json:"division,omitempty"`
	Candidates []CandidateAnswer `json:"candidates,omitempty"`
}

// CandidateAnswer is one candidate in an answer, with the party code
// expanded for speech output.
type CandidateAnswer struct {
	Name        string `json:"name"`
	Party       string `json:"party,omitempty"`
	PartyName   string `json:"partyName,omitempty"`
	FavID       string `json:"favId,omitempty"`
	CanonicalID string `json:"canonicalId,omitempty"`
	HasVideo    bool   `json:"hasVideo"`
}

// Selection is one disambiguation follow-up. Exactly one field should be
// set; precedence is confirm, party, ordinal.
type Selection struct {
	Ordinal int    `json:"ordinal,omitempty"`
	Party   string `json:"party,omitempty"`
	Confirm bool   `json:"confirm,omitempty"`
}

// Ask resolves an utterance against the user's ballot. Any resolve, even an
// empty one, supersedes the previous disambiguation context.
func (s *Service) Ask(ctx context.Context, userID, text string, hints models.Hints) (*Answer, error) {
	election, err := s.Election(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !election.HasContests() {
		return nil, sentinel.ErrNoData
	}

	if matches := resolve.FindContests(election.Contests, text, hints); len(matches) > 0 {
		if len(matches) == 1 {
			metrics.ResolveOutcomes.WithLabelValues("contest", "matched").Inc()
			only := resolve.ContestCandidates{
				Contest:    matches[0],
				Candidates: resolve.AllCandidates(matches[0].Contest),
			}
			if err := s.saveChoice(ctx, userID, resolve.ContextForCandidates(only.Contest, only.Candidates)); err != nil {
				return nil, err
			}
			return s.contestAnswer(election, only), nil
		}

		metrics.ResolveOutcomes.WithLabelValues("contest", "ambiguous").Inc()
		if err := s.saveChoice(ctx, userID, resolve.ContextForContests(matches)); err != nil {
			return nil, err
		}
		return s.contestListAnswer(election, matches), nil
	}

	results := resolve.FindCandidates(election.Contests, text, hints)
	switch {
	case len(results) == 0:
		metrics.ResolveOutcomes.WithLabelValues("candidate", "none").Inc()
		if err := s.saveChoice(ctx, userID, nil); err != nil {
			return nil, err
		}
		return &Answer{Kind: AnswerNone, Election: election.Info}, nil

	case len(results) == 1:
		outcome := "matched"
		kind := AnswerCandidate
		if len(results[0].Candidates) > 1 {
			outcome = "ambiguous"
			kind = AnswerCandidates
		}
		metrics.ResolveOutcomes.WithLabelValues("candidate", outcome).Inc()
		if err := s.saveChoice(ctx, userID, resolve.ContextForCandidates(results[0].Contest, results[0].Candidates)); err != nil {
			return nil, err
		}
		answer := s.contestAnswer(election, results[0])
		answer.Kind = kind
		return answer, nil

	default:
		// The same name matched in several contests; the user picks the
		// contest first.
		metrics.ResolveOutcomes.WithLabelValues("candidate", "ambiguous").Inc()
		contests := make([]resolve.ContestMatch, len(results))
		for i, r := range results {
			contests[i] = r.Contest
		}
		if err := s.saveChoice(ctx, userID, resolve.ContextForContests(contests)); err != nil {
			return nil, err
		}
		return s.contestListAnswer(election, contests), nil
	}
}

// Choose applies a follow-up selection to the pending disambiguation
// context. An expired or missing context yields ErrNoData.
func (s *Service) Choose(ctx context.Context, userID string, selection Selection) (*Answer, error) {
	election, err := s.Election(ctx, userID)
	if err != nil {
		return nil, err
	}
	pending, err := s.choices.Get(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, sentinel.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("load pending choice: %w", err)
	}

	var chosen resolve.ContestCandidates
	var ok bool
	switch {
	case selection.Confirm:
		chosen, ok = resolve.Confirm(election, pending)
	case strings.TrimSpace(selection.Party) != "":
		chosen, ok = resolve.ChooseParty(election, pending, selection.Party)
	case selection.Ordinal > 0:
		chosen, ok = resolve.ChooseOrdinal(election, pending, selection.Ordinal)
	}

	if !ok {
		metrics.ResolveOutcomes.WithLabelValues("choice", "none").Inc()
		return &Answer{Kind: AnswerNone, Election: election.Info}, nil
	}
	metrics.ResolveOutcomes.WithLabelValues("choice", "matched").Inc()

	if err := s.saveChoice(ctx, userID, resolve.ContextForCandidates(chosen.Contest, chosen.Candidates)); err != nil {
		return nil, err
	}
	return s.contestAnswer(election, chosen), nil
}

func (s *Service) saveChoice(ctx context.Context, userID string, choiceCtx *models.ChoiceContext) error {
	if err := s.choices.Save(ctx, userID, choiceCtx); err != nil {
		return fmt.Errorf("save pending choice: %w", err)
	}
	return nil
}

func (s *Service) contestAnswer(election *models.Election, result resolve.ContestCandidates) *Answer {
	kind := AnswerContest
	if len(result.Candidates) == 1 {
		kind = AnswerCandidate
	}
	return &Answer{
		Kind:     kind,
		Election: election.Info,
		Contests: []ContestAnswer{toContestAnswer(result)},
	}
}

func (s *Service) contestListAnswer(election *models.Election, matches []resolve.ContestMatch) *Answer {
	answer := &Answer{Kind: AnswerContests, Election: election.Info}
	for _, m := range matches {
		answer.Contests = append(answer.Contests, ContestAnswer{
			Name:     m.Contest.Name,
			Division: m.Contest.Division,
		})
	}
	return answer
}

func toContestAnswer(result resolve.ContestCandidates) ContestAnswer {
	answer := ContestAnswer{
		Name:     result.Contest.Contest.Name,
		Division: result.Contest.Contest.Division,
	}
	for _, c := range result.Candidates {
		answer.Candidates = append(answer.Candidates, CandidateAnswer{
			Name:        c.Candidate.Name,
			Party:       c.Candidate.Party,
			PartyName:   normalize.PartyName(c.Candidate.Party),
			FavID:       c.Candidate.FavID,
			CanonicalID: c.Candidate.CanonicalID,
			HasVideo:    c.Candidate.Video != nil,
		})
	}
	return answer
}
