package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"ballotguide/internal/ballot/models"
)

// flexInt accepts both JSON numbers and numeric strings. Conversation
// front ends deliver extracted slot values as strings ("50"); API clients
// send numbers.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == `""` {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			// A non-numeric slot value is treated as absent, not an error.
			*n = 0
			return nil
		}
		*n = flexInt(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

// hintsPayload is the wire form of resolver hints. Number arrives from slot
// extraction as either a string or a number; everything else is plain text.
type hintsPayload struct {
	Office    string  `json:"office,omitempty"`
	State     string  `json:"state,omitempty"`
	Country   string  `json:"country,omitempty"`
	Number    flexInt `json:"number,omitempty"`
	Scope     string  `json:"scope,omitempty"`
	Party     string  `json:"party,omitempty"`
	Query     string  `json:"query,omitempty"`
	Candidate string  `json:"candidate,omitempty"`
	Original  string  `json:"original,omitempty"`
	Ordinal   flexInt `json:"ordinal,omitempty"`
}

func (p hintsPayload) toModel() models.Hints {
	return models.Hints{
		Office:    p.Office,
		State:     p.State,
		Country:   p.Country,
		Number:    int(p.Number),
		Scope:     p.Scope,
		Party:     p.Party,
		Query:     p.Query,
		Candidate: p.Candidate,
		Original:  p.Original,
		Ordinal:   int(p.Ordinal),
	}
}
