package civic

// Wire types for the two upstream election-data providers. Field names and
// json tags mirror the provider payloads; internal shapes live in
// internal/ballot/models and are produced by internal/ballot/compile.

// VoterInfoResponse is Provider A's answer for an address: the official
// ballot, possibly without contests or locations yet.
type VoterInfoResponse struct {
	Election         *ElectionRef    `json:"election,omitempty"`
	Contests         []ContestInfo   `json:"contests,omitempty"`
	PollingLocations []PollingPlace  `json:"pollingLocations,omitempty"`
	EarlyVoteSites   []PollingPlace  `json:"earlyVoteSites,omitempty"`
	DropOffLocations []PollingPlace  `json:"dropOffLocations,omitempty"`
	NormalizedInput  *Address        `json:"normalizedInput,omitempty"`
}

// ElectionRef names the election a voter-info response belongs to.
// ElectionDay arrives as YYYY-MM-DD.
type ElectionRef struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	ElectionDay   string `json:"electionDay"`
	OcdDivisionID string `json:"ocdDivisionId,omitempty"`
}

// ContestInfo is one race or referendum as reported by Provider A. Either
// Office+Candidates or ReferendumTitle+ReferendumBallotResponses is set.
type ContestInfo struct {
	Office                    string          `json:"office,omitempty"`
	ReferendumTitle           string          `json:"referendumTitle,omitempty"`
	ReferendumBallotResponses []string        `json:"referendumBallotResponses,omitempty"`
	District                  District        `json:"district"`
	Candidates                []CandidateInfo `json:"candidates,omitempty"`
}

// District identifies the jurisdiction a contest belongs to.
type District struct {
	Name  string `json:"name,omitempty"`
	Scope string `json:"scope,omitempty"`
	ID    string `json:"id,omitempty"`
}

// CandidateInfo is one candidate as reported by Provider A.
type CandidateInfo struct {
	Name         string `json:"name"`
	Party        string `json:"party,omitempty"`
	CandidateURL string `json:"candidateUrl,omitempty"`
}

// PollingPlace is one voting location in a voter-info response.
type PollingPlace struct {
	Address      Address `json:"address"`
	PollingHours string  `json:"pollingHours,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	StartDate    string  `json:"startDate,omitempty"`
	EndDate      string  `json:"endDate,omitempty"`
}

// Address is the provider's structured postal address.
type Address struct {
	LocationName string `json:"locationName,omitempty"`
	Line1        string `json:"line1,omitempty"`
	Line2        string `json:"line2,omitempty"`
	Line3        string `json:"line3,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Zip          string `json:"zip,omitempty"`
}

// RepresentativesResponse is Provider B's answer for an address: the
// jurisdictions (divisions) the address belongs to.
type RepresentativesResponse struct {
	Divisions map[string]Division `json:"divisions"`
}

// Division is one jurisdiction's metadata.
type Division struct {
	Name string `json:"name,omitempty"`
}

// ElectionListResponse is Provider A's catalogue of known elections, used to
// maintain the division election index.
type ElectionListResponse struct {
	Elections []ElectionRef `json:"elections,omitempty"`
}
