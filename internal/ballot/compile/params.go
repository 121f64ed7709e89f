package compile

import (
	"strconv"
	"strings"

	"ballotguide/internal/ballot/models"
)

// ParamsFromDivision derives contest params from an open-civic-data division
// identifier, e.g.
//
//	ocd-division/country:us                      → country level
//	ocd-division/country:us/state:co             → state level
//	ocd-division/country:us/state:co/cd:4        → congressional district 4
//	ocd-division/country:us/state:co/sldl:50     → state house district 50
//	ocd-division/country:us/state:ks/county:wyandotte → county level
//
// Returns nil when the identifier is not an ocd division id.
func ParamsFromDivision(ocdID string) *models.ContestParams {
	const prefix = "ocd-division/"
	if !strings.HasPrefix(ocdID, prefix) {
		return nil
	}

	params := &models.ContestParams{Type: models.OfficeCountry}
	for _, segment := range strings.Split(ocdID[len(prefix):], "/") {
		key, value, ok := strings.Cut(segment, ":")
		if !ok {
			continue
		}
		switch key {
		case "state", "district", "territory":
			params.Type = models.OfficeState
			params.State = value
		case "cd":
			params.Type = models.OfficeCongressionalDistrict
			params.Number = districtNumber(value)
		case "sldu":
			params.Type = models.OfficeStateSenateDistrict
			params.Number = districtNumber(value)
		case "sldl":
			params.Type = models.OfficeStateHouseDistrict
			params.Number = districtNumber(value)
		case "county":
			params.Type = models.OfficeCounty
		}
	}
	return params
}

// districtNumber parses a district segment value. Non-numeric district names
// (some states letter their seats) are modeled as numberless.
func districtNumber(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
