package models

// Hints are the structured slots extracted from a user utterance by the
// conversation layer. Zero values mean "absent"; Number and Ordinal use 0 as
// absent since district numbers and ordinals are 1-based.
type Hints struct {
	Office    string `json:"office,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Number    int    `json:"number,omitempty"`
	Scope     string `json:"scope,omitempty"`
	Party     string `json:"party,omitempty"`
	Query     string `json:"query,omitempty"`
	Candidate string `json:"candidate,omitempty"`
	Original  string `json:"original,omitempty"`
	Ordinal   int    `json:"ordinal,omitempty"`
}

// IsZero reports whether no hint slot is filled.
func (h Hints) IsZero() bool {
	return h == Hints{}
}

// ScopeAtLarge is the scope hint value selecting numberless seats.
const ScopeAtLarge = "at-large"

// ChoiceContext is the disambiguation state carried across conversational
// turns. Indices are positions into the persisted merged Election at the
// time the context was produced; they are not durable identity, so a context
// is superseded wholesale by the next resolve that produces one.
//
// Either Contests is set (several contests matched) or Contest+Candidates is
// set (one contest, several candidates). Contest is a pointer because
// position zero is a valid contest.
type ChoiceContext struct {
	Contests   []int `json:"contests,omitempty"`
	Contest    *int  `json:"contest,omitempty"`
	Candidates []int `json:"candidates,omitempty"`
}

// HasContests reports whether the context narrows a set of contests.
func (c *ChoiceContext) HasContests() bool {
	return c != nil && len(c.Contests) > 0
}

// HasCandidates reports whether the context narrows candidates in a contest.
func (c *ChoiceContext) HasCandidates() bool {
	return c != nil && c.Contest != nil && len(c.Candidates) > 0
}
