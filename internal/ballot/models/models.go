package models

// Source identifies which pipeline produced an Election snapshot.
type Source string

const (
	// SourceVoterInfo marks the authoritative ballot-of-record pipeline.
	SourceVoterInfo Source = "voterinfo"
	// SourceDivisions marks the jurisdiction-derived secondary pipeline.
	SourceDivisions Source = "divisions"
)

// OfficeType classifies a contest's seat by jurisdiction level. The values
// follow the open civic data division types carried by the secondary source.
type OfficeType string

const (
	OfficeCountry               OfficeType = "country"
	OfficeCongressionalDistrict OfficeType = "cd"
	OfficeStateSenateDistrict   OfficeType = "sldu"
	OfficeStateHouseDistrict    OfficeType = "sldl"
	OfficeCounty                OfficeType = "county"
	OfficeState                 OfficeType = "state"
)

// Election is a single snapshot of a user's upcoming election. Exactly one
// reconciled Election record is persisted per user at any time; source
// snapshots exist only as inputs to the next merge.
//
// Invariants:
//   - Info is nil until an election day/name is known
//   - Within one Contest, candidate favorite ids are unique
//   - Contests come from at most one source per merge, never interleaved
type Election struct {
	Source          Source           `json:"source"`
	Lang            string           `json:"lang"`
	Address         string           `json:"address"`
	Info            *ElectionInfo    `json:"election,omitempty"`
	Contests        []Contest        `json:"contests,omitempty"`
	VotingLocations []VotingLocation `json:"voting_locations,omitempty"`
}

// ElectionInfo names the underlying real-world election. Day is YYYYMMDD.
type ElectionInfo struct {
	ID   string `json:"id,omitempty"`
	Day  string `json:"election_day"`
	Name string `json:"name,omitempty"`
}

// HasInfo reports whether the election day is known.
func (e *Election) HasInfo() bool {
	return e != nil && e.Info != nil && e.Info.Day != ""
}

// HasContests reports whether any ballot content is present.
func (e *Election) HasContests() bool {
	return e != nil && len(e.Contests) > 0
}

// Contest is one race or referendum on the ballot. Position within the
// election is not durable identity; matching results carry positions
// separately (see resolve.ContestMatch).
type Contest struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"name"`
	Division   string         `json:"division,omitempty"`
	Params     *ContestParams `json:"params,omitempty"`
	Candidates []Candidate    `json:"candidates,omitempty"`
}

// ContestParams describes the seat's jurisdiction. Number is the district
// number; zero means the seat carries no district number (at-large).
type ContestParams struct {
	Type   OfficeType `json:"type"`
	State  string     `json:"state,omitempty"`
	Number int        `json:"number,omitempty"`
}

// Candidate is one candidate (or referendum response) within a contest.
//
// FavID is the fetch-local identity used to track the same candidate across
// sources and repeated fetches. CanonicalID is the durable identity assigned
// when candidate records are published by the secondary pipeline; the
// favorite-id supplement rewrites future FavIDs to it.
type Candidate struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Party       string   `json:"party,omitempty"`
	FavID       string   `json:"fav_id"`
	OldFavID    string   `json:"old_fav_id,omitempty"`
	CanonicalID string   `json:"canonical_id,omitempty"`
	Division    string   `json:"division,omitempty"`
	FavIDs      []string `json:"fav_ids,omitempty"`
	Video       *Video   `json:"video,omitempty"`
}

// Video points at published candidate media.
type Video struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Audio     string `json:"audio,omitempty"`
}

// VotingLocation is a single physical place a voter can use. One place with
// multiple roles collapses into one entry carrying each applicable role.
type VotingLocation struct {
	Address          CivicAddress    `json:"address"`
	FormattedAddress string          `json:"formatted_address"`
	PollingLocation  *LocationDetail `json:"polling_location,omitempty"`
	DropOffLocation  *LocationDetail `json:"drop_off_location,omitempty"`
	EarlyVoteSite    *LocationDetail `json:"early_vote_site,omitempty"`
}

// CivicAddress is the structured postal address used by both providers.
type CivicAddress struct {
	LocationName string `json:"location_name,omitempty"`
	Line1        string `json:"line1,omitempty"`
	Line2        string `json:"line2,omitempty"`
	Line3        string `json:"line3,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Zip          string `json:"zip,omitempty"`
}

// LocationDetail carries the per-role fields of a voting location. The
// nested address is kept once at the VotingLocation level, not per role.
type LocationDetail struct {
	PollingHours string `json:"polling_hours,omitempty"`
	Notes        string `json:"notes,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}

// Supplement maps superseded favorite ids to the canonical id for one
// underlying real-world election.
type Supplement struct {
	FavIDMap map[string]string `json:"fav_id_map"`
}

// AddressTrigger is the per-user record driving provider fetches.
type AddressTrigger struct {
	Address     string `json:"address"`
	Lang        string `json:"lang"`
	RefreshedAt int64  `json:"refreshed_at"` // unix seconds of last provider fetch
}

// DivisionElection is one division's upcoming-election snapshot in the
// election index, the secondary pipeline's per-jurisdiction lookup target.
type DivisionElection struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name,omitempty"`
	ElectionDay string    `json:"election_day"`
	Division    string    `json:"division,omitempty"`
	Contests    []Contest `json:"contests,omitempty"`
}
