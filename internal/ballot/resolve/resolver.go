// Package resolve answers "which contest or candidate does this utterance
// refer to" against a merged Election.
//
// Contest resolution is a cascade of match rules evaluated in priority
// order. Each rule either produces a result set (the cascade stops) or has
// no opinion (the cascade continues). Rules that shortcut on office type
// additionally require an unambiguous single match; an ambiguous shortcut is
// treated as insufficient, not as an answer.
//
// Positions returned with matches are computed per call from the election as
// loaded; they are conversational bookkeeping for the disambiguation
// context, never durable identity.
package resolve

import (
	"strings"

	"ballotguide/internal/ballot/models"
	"ballotguide/internal/ballot/normalize"
)

// ContestMatch pairs a contest with its position in the election's contest
// list at resolve time.
type ContestMatch struct {
	Index   int
	Contest *models.Contest
}

// contestQuery carries one resolution attempt: the indexed contests, the
// normalized utterance, and hints normalized once at entry.
type contestQuery struct {
	contests []ContestMatch
	input    string
	hints    models.Hints
	hasHints bool
}

// contestRule is one step of the cascade. Rules flagged exactlyOne only
// accept a single unambiguous match.
type contestRule struct {
	name       string
	exactlyOne bool
	apply      func(q *contestQuery) []ContestMatch
}

var contestRules = []contestRule{
	{name: "contest-hint", apply: func(q *contestQuery) []ContestMatch {
		if q.hints.Original == "" {
			return nil
		}
		return matchName(q.contests, q.hints, q.hints.Original)
	}},
	{name: "office-hint", apply: func(q *contestQuery) []ContestMatch {
		if q.hints.Office == "" {
			return nil
		}
		return matchName(q.contests, q.hints, q.hints.Office)
	}},
	{name: "us-house", exactlyOne: true, apply: func(q *contestQuery) []ContestMatch {
		if q.hints.Office == "representative" &&
			(q.hints.State == "" || strings.Contains(q.input, "cd")) {
			return matchType(q.contests, q.hints, models.OfficeCongressionalDistrict)
		}
		return nil
	}},
	{name: "state-senate", exactlyOne: true, apply: func(q *contestQuery) []ContestMatch {
		if q.hints.Office == "state senate" ||
			(q.hints.Office == "senator" && q.hints.State != "") {
			return matchType(q.contests, q.hints, models.OfficeStateSenateDistrict)
		}
		return nil
	}},
	{name: "state-house", exactlyOne: true, apply: func(q *contestQuery) []ContestMatch {
		if q.hints.Office == "state house" ||
			(q.hints.Office == "representative" && q.hints.State != "") {
			return matchType(q.contests, q.hints, models.OfficeStateHouseDistrict)
		}
		return nil
	}},
	{name: "query-text", apply: func(q *contestQuery) []ContestMatch {
		for _, query := range nonEmpty(q.hints.Query, q.hints.Original, q.input) {
			if matches := filterContests(q.contests, func(name string) bool { return name == query }); len(matches) > 0 {
				return matches
			}
			if matches := filterContests(q.contests, func(name string) bool { return strings.Contains(name, query) }); len(matches) > 0 {
				return matches
			}
		}
		return nil
	}},
}

// officeKeywords are probed as bare substrings when the office hint itself
// matched nothing, e.g. "county commissioner district 2" against a contest
// named "Commissioner".
var officeKeywords = []string{"commissioner", "education", "regent"}

// FindContests resolves an utterance (plus optional hints) to contests.
// An exact normalized-name match short-circuits every heuristic; without
// hints there is nothing else to go on and resolution stops.
func FindContests(contests []models.Contest, input string, hints models.Hints) []ContestMatch {
	q := newContestQuery(contests, input, hints)

	if matches := filterContests(q.contests, func(name string) bool { return name == q.input }); len(matches) > 0 {
		return matches
	}
	if !q.hasHints {
		return nil
	}

	for _, rule := range contestRules {
		matches := rule.apply(q)
		if rule.exactlyOne && len(matches) != 1 {
			continue
		}
		if len(matches) > 0 {
			return matches
		}
	}

	if q.hints.Office != "" {
		for _, keyword := range officeKeywords {
			if strings.Contains(q.hints.Office, keyword) {
				return matchName(q.contests, q.hints, keyword)
			}
		}
	}

	return nil
}

func newContestQuery(contests []models.Contest, input string, hints models.Hints) *contestQuery {
	indexed := make([]ContestMatch, len(contests))
	for i := range contests {
		indexed[i] = ContestMatch{Index: i, Contest: &contests[i]}
	}
	return &contestQuery{
		contests: indexed,
		input:    normalize.Normalize(input),
		hints:    normalizeHints(hints),
		hasHints: !hints.IsZero(),
	}
}

// normalizeHints applies the normalizer to every free-text slot once, at
// the boundary, so rules never compare a stored name against raw hint text.
// Scope is a controlled vocabulary and is only case-folded, since the
// normalizer would strip the hyphen out of "at-large".
func normalizeHints(h models.Hints) models.Hints {
	h.Office = normalize.Normalize(h.Office)
	h.State = normalize.Normalize(h.State)
	h.Country = normalize.Normalize(h.Country)
	h.Scope = strings.ToLower(strings.TrimSpace(h.Scope))
	h.Party = normalize.Normalize(h.Party)
	h.Query = normalize.Normalize(h.Query)
	h.Candidate = normalize.Normalize(h.Candidate)
	h.Original = normalize.Normalize(h.Original)
	return h
}

func filterContests(contests []ContestMatch, keep func(normalizedName string) bool) []ContestMatch {
	var matches []ContestMatch
	for _, m := range contests {
		if keep(normalize.Normalize(m.Contest.Name)) {
			matches = append(matches, m)
		}
	}
	return matches
}

// matchName filters contests whose name contains substring, then applies the
// jurisdiction constraints carried by the hints:
//
//   - a country-level hint excludes state legislature seats
//   - a state hint excludes contests typed for a different state (the hint
//     may be a full state name or a two-letter code)
//   - with neither number nor scope hints, every remaining contest qualifies
//   - otherwise the district number must match, or the hint asks for an
//     at-large seat and the contest carries no district number
func matchName(contests []ContestMatch, hints models.Hints, substring string) []ContestMatch {
	var matches []ContestMatch
	for _, m := range contests {
		if !strings.Contains(normalize.Normalize(m.Contest.Name), substring) {
			continue
		}
		params := m.Contest.Params

		if hints.Country == "united states of america" && params != nil &&
			(params.Type == models.OfficeStateSenateDistrict || params.Type == models.OfficeStateHouseDistrict) {
			continue
		}
		if !stateMatches(params, hints.State) {
			continue
		}

		if hints.Number == 0 && hints.Scope == "" {
			matches = append(matches, m)
			continue
		}
		if params != nil &&
			(hints.Number == params.Number ||
				(hints.Scope == models.ScopeAtLarge && params.Number == 0)) {
			matches = append(matches, m)
		}
	}
	return matches
}

// matchType restricts contests to one office type under the same state rule
// as matchName, additionally requiring district-number equality when a
// number hint is present.
func matchType(contests []ContestMatch, hints models.Hints, expected models.OfficeType) []ContestMatch {
	var matches []ContestMatch
	for _, m := range contests {
		params := m.Contest.Params
		if params == nil || params.Type != expected {
			continue
		}
		if !stateMatches(params, hints.State) {
			continue
		}
		if hints.Number != 0 && hints.Number != params.Number {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

// stateMatches accepts a contest when no state hint is given, when the
// contest carries no params, or when the contest's state equals the hint
// either directly or through the state-name table.
func stateMatches(params *models.ContestParams, stateHint string) bool {
	if stateHint == "" || params == nil {
		return true
	}
	return params.State == stateHint || params.State == normalize.StateCode(stateHint)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
