package compile

import (
	"strings"

	"ballotguide/internal/ballot/models"
	"ballotguide/internal/civic"
)

// MergeVotingLocations collapses the three per-role location lists into one
// deduplicated list. A single physical place appearing under several roles
// becomes one entry carrying each applicable role detail; the postal address
// is kept once at the top level. Entries keep first-appearance order.
func MergeVotingLocations(polling, dropOff, earlyVote []civic.PollingPlace) []models.VotingLocation {
	var keys []string
	byKey := make(map[string]*models.VotingLocation)

	add := func(places []civic.PollingPlace, assign func(*models.VotingLocation, *models.LocationDetail)) {
		for _, place := range places {
			if place.Address == (civic.Address{}) {
				continue
			}

			formatted := FormatAddress(place.Address)
			key := formatted
			if place.Address.LocationName != "" {
				key = place.Address.LocationName + ", " + formatted
			}

			loc := byKey[key]
			if loc == nil {
				loc = &models.VotingLocation{
					Address:          toCivicAddress(place.Address),
					FormattedAddress: formatted,
				}
				byKey[key] = loc
				keys = append(keys, key)
			}
			assign(loc, &models.LocationDetail{
				PollingHours: place.PollingHours,
				Notes:        place.Notes,
				StartDate:    place.StartDate,
				EndDate:      place.EndDate,
			})
		}
	}

	add(polling, func(l *models.VotingLocation, d *models.LocationDetail) { l.PollingLocation = d })
	add(dropOff, func(l *models.VotingLocation, d *models.LocationDetail) { l.DropOffLocation = d })
	add(earlyVote, func(l *models.VotingLocation, d *models.LocationDetail) { l.EarlyVoteSite = d })

	if len(keys) == 0 {
		return nil
	}
	out := make([]models.VotingLocation, len(keys))
	for i, key := range keys {
		out[i] = *byKey[key]
	}
	return out
}

// FormatAddress renders a structured address as a single line, skipping
// blank fields.
func FormatAddress(a civic.Address) string {
	parts := make([]string, 0, 5)
	for _, field := range []string{a.Line1, a.Line2, a.Line3, a.City, a.State} {
		if strings.TrimSpace(field) != "" {
			parts = append(parts, field)
		}
	}
	formatted := strings.Join(parts, ", ")
	if a.Zip != "" {
		formatted += " " + a.Zip
	}
	return formatted
}

func toCivicAddress(a civic.Address) models.CivicAddress {
	return models.CivicAddress{
		LocationName: a.LocationName,
		Line1:        a.Line1,
		Line2:        a.Line2,
		Line3:        a.Line3,
		City:         a.City,
		State:        a.State,
		Zip:          a.Zip,
	}
}
