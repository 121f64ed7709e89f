package compile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ballotguide/internal/ballot/models"
	"ballotguide/internal/civic"
)

const testAddress = "1263 Pacific Ave, Kansas City, KS"

func TestFromVoterInfo(t *testing.T) {
	resp := &civic.VoterInfoResponse{
		Election: &civic.ElectionRef{
			ID:          "4499",
			Name:        "Delaware General Election",
			ElectionDay: "2018-11-06",
		},
		Contests: []civic.ContestInfo{
			{
				Office:   "United States Senator",
				District: civic.District{Name: "STATEWIDE"},
				Candidates: []civic.CandidateInfo{
					{Name: "Kerri Evelyn Harris", Party: "DEM"},
				},
			},
		},
	}

	election := FromVoterInfo(resp, testAddress, "en")

	require.Equal(t, models.SourceVoterInfo, election.Source)
	require.Equal(t, testAddress, election.Address)
	require.Equal(t, "en", election.Lang)
	require.Equal(t, "20181106", election.Info.Day)

	require.Len(t, election.Contests, 1)
	contest := election.Contests[0]
	require.Equal(t, "United States Senator", contest.Name)
	require.Len(t, contest.Candidates, 1)
	require.Equal(t, "4499|STATEWIDE|United States Senator|Kerri Evelyn Harris",
		contest.Candidates[0].FavID)
}

func TestFromVoterInfoReferendum(t *testing.T) {
	resp := &civic.VoterInfoResponse{
		Election: &civic.ElectionRef{ID: "7000", ElectionDay: "2018-11-06"},
		Contests: []civic.ContestInfo{
			{
				ReferendumTitle:           "Amendment 73",
				ReferendumBallotResponses: []string{"Yes", "No"},
				District:                  civic.District{Name: "Colorado"},
			},
		},
	}

	election := FromVoterInfo(resp, testAddress, "en")

	require.Len(t, election.Contests, 1)
	contest := election.Contests[0]
	require.Equal(t, "Amendment 73", contest.Name)
	require.Len(t, contest.Candidates, 2)
	require.Equal(t, "Yes", contest.Candidates[0].Name)
	require.Equal(t, "7000|Colorado|Amendment 73|Yes", contest.Candidates[0].FavID)
}

func TestFromVoterInfoOfficeWinsOverReferendumTitle(t *testing.T) {
	resp := &civic.VoterInfoResponse{
		Contests: []civic.ContestInfo{
			{Office: "Governor", ReferendumTitle: "ignored", District: civic.District{Name: "KS"}},
		},
	}

	election := FromVoterInfo(resp, testAddress, "en")
	require.Nil(t, election.Info)
	require.Equal(t, "Governor", election.Contests[0].Name)
}

func TestFromDivisions(t *testing.T) {
	snapshots := []models.DivisionElection{
		{
			Division:    "ocd-division/country:us/state:de",
			ElectionDay: "20181106",
			Name:        "Delaware General",
			Contests: []models.Contest{
				{
					ID:   "senate",
					Name: "United States Senator",
					Candidates: []models.Candidate{
						{ID: "KerriEvelynHarris", Name: "Kerri Evelyn Harris"},
					},
				},
			},
		},
		{
			Division:    "ocd-division/country:us",
			ElectionDay: "20181106",
			Name:        "Delaware General",
			Contests:    []models.Contest{{ID: "potus", Name: "President"}},
		},
		{
			// Later election day loses to the nearest one.
			Division:    "ocd-division/country:us/state:de/county:kent",
			ElectionDay: "20190402",
			Contests:    []models.Contest{{ID: "mayor", Name: "Mayor"}},
		},
	}

	election := FromDivisions(snapshots, testAddress, "en")

	require.Equal(t, models.SourceDivisions, election.Source)
	require.Equal(t, "20181106", election.Info.Day)
	require.Equal(t, "Delaware General", election.Info.Name)

	// Flattened in division order: country sorts before state.
	require.Len(t, election.Contests, 2)
	require.Equal(t, "President", election.Contests[0].Name)
	require.Equal(t, "ocd-division/country:us", election.Contests[0].Division)

	senate := election.Contests[1]
	require.Equal(t, "ocd-division/country:us/state:de", senate.Division)
	require.Len(t, senate.Candidates, 1)
	require.Equal(t,
		"20181106|ocd-division,country:us,state:de|senate|KerriEvelynHarris",
		senate.Candidates[0].FavID)
	require.Equal(t, "ocd-division/country:us/state:de", senate.Candidates[0].Division)
}

func TestFromDivisionsEmptySnapshotsCannotAnchor(t *testing.T) {
	snapshots := []models.DivisionElection{
		// Knows an earlier day but has no ballot content.
		{Division: "ocd-division/country:us", ElectionDay: "20181001"},
		{
			Division:    "ocd-division/country:us/state:ks",
			ElectionDay: "20181106",
			Name:        "Kansas General",
			Contests:    []models.Contest{{ID: "gov", Name: "Governor"}},
		},
	}

	election := FromDivisions(snapshots, testAddress, "en")
	require.Equal(t, "20181106", election.Info.Day)
	require.Len(t, election.Contests, 1)
}

func TestFromDivisionsNoSnapshots(t *testing.T) {
	election := FromDivisions(nil, testAddress, "en")
	require.Equal(t, models.SourceDivisions, election.Source)
	require.Nil(t, election.Info)
	require.Empty(t, election.Contests)
}

func TestStampCanonicalIDs(t *testing.T) {
	snap := &models.DivisionElection{
		Division:    "ocd-division/country:us/state:de",
		ElectionDay: "20181106",
		Contests: []models.Contest{
			{ID: "senate", Candidates: []models.Candidate{{ID: "KerriEvelynHarris"}}},
		},
	}

	StampCanonicalIDs(snap)

	require.Equal(t,
		"20181106|ocd-division,country:us,state:de|senate|KerriEvelynHarris",
		snap.Contests[0].Candidates[0].CanonicalID)
}

func TestParamsFromDivision(t *testing.T) {
	tests := []struct {
		ocd  string
		want *models.ContestParams
	}{
		{"ocd-division/country:us", &models.ContestParams{Type: models.OfficeCountry}},
		{"ocd-division/country:us/state:co", &models.ContestParams{Type: models.OfficeState, State: "co"}},
		{"ocd-division/country:us/state:co/cd:4", &models.ContestParams{Type: models.OfficeCongressionalDistrict, State: "co", Number: 4}},
		{"ocd-division/country:us/state:co/sldu:14", &models.ContestParams{Type: models.OfficeStateSenateDistrict, State: "co", Number: 14}},
		{"ocd-division/country:us/state:co/sldl:50", &models.ContestParams{Type: models.OfficeStateHouseDistrict, State: "co", Number: 50}},
		{"ocd-division/country:us/state:ks/county:wyandotte", &models.ContestParams{Type: models.OfficeCounty, State: "ks"}},
		{"ocd-division/country:us/state:ma/sldl:barnstable_1", &models.ContestParams{Type: models.OfficeStateHouseDistrict, State: "ma"}},
		{"not-an-ocd-id", nil},
	}
	for _, tt := range tests {
		t.Run(tt.ocd, func(t *testing.T) {
			require.Equal(t, tt.want, ParamsFromDivision(tt.ocd))
		})
	}
}

func TestMergeVotingLocations(t *testing.T) {
	place := civic.Address{
		LocationName: "Town Hall",
		Line1:        "2100 Main St",
		City:         "Kansas City",
		State:        "KS",
		Zip:          "66101",
	}

	merged := MergeVotingLocations(
		[]civic.PollingPlace{{Address: place, PollingHours: "7am-7pm"}},
		nil,
		[]civic.PollingPlace{{Address: place, StartDate: "2018-10-22"}},
	)

	// Same place under two roles collapses into one entry with both roles.
	require.Len(t, merged, 1)
	loc := merged[0]
	require.Equal(t, "2100 Main St, Kansas City, KS 66101", loc.FormattedAddress)
	require.Equal(t, "Town Hall", loc.Address.LocationName)
	require.NotNil(t, loc.PollingLocation)
	require.Equal(t, "7am-7pm", loc.PollingLocation.PollingHours)
	require.NotNil(t, loc.EarlyVoteSite)
	require.Equal(t, "2018-10-22", loc.EarlyVoteSite.StartDate)
	require.Nil(t, loc.DropOffLocation)
}

func TestMergeVotingLocationsDistinctPlaces(t *testing.T) {
	a := civic.Address{Line1: "1 First St", City: "Topeka", State: "KS"}
	b := civic.Address{Line1: "2 Second St", City: "Topeka", State: "KS"}

	merged := MergeVotingLocations(
		[]civic.PollingPlace{{Address: a}},
		[]civic.PollingPlace{{Address: b}},
		nil,
	)

	require.Len(t, merged, 2)
	require.NotNil(t, merged[0].PollingLocation)
	require.NotNil(t, merged[1].DropOffLocation)
}

func TestMergeVotingLocationsSkipsMissingAddress(t *testing.T) {
	merged := MergeVotingLocations([]civic.PollingPlace{{PollingHours: "all day"}}, nil, nil)
	require.Empty(t, merged)
}
