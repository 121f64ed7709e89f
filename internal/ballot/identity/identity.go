// Package identity computes contest and candidate identifiers.
//
// Two schemes coexist and must not be confused. Favorite ids are fetch-local:
// each source pipeline derives them from its own structural keys, so the same
// real-world candidate gets a different-looking favorite id from each source
// and can get a new one when a source canonicalizes a name between fetches.
// Canonical ids are the durable cross-fetch identity; the favorite-id
// supplement rewrites favorite ids to them during reconciliation.
package identity

import "strings"

const sep = "|"

// Sanitize replaces path separators so an id can never collide with a
// path-like persistence key.
func Sanitize(id string) string {
	return strings.ReplaceAll(id, "/", ",")
}

// BallotFavID builds the authoritative pipeline's favorite id for one
// candidate: election id, jurisdiction name, contest display name, and the
// candidate name or referendum response text.
func BallotFavID(electionID, district, contestName, candidate string) string {
	return Sanitize(strings.Join([]string{electionID, district, contestName, candidate}, sep))
}

// DivisionsFavID builds the secondary pipeline's favorite id for one
// candidate: election day, division id, contest id, candidate id.
func DivisionsFavID(electionDay, divisionID, contestID, candidateID string) string {
	return Sanitize(strings.Join([]string{electionDay, divisionID, contestID, candidateID}, sep))
}

// Canonical builds the durable identity from a caller-supplied ordered key
// list, e.g. electionDay, division, contestID, candidateID.
func Canonical(parts ...string) string {
	return Sanitize(strings.Join(parts, sep))
}

// ElectionID extracts the election-id segment a favorite id was built from.
// The supplement store groups favorite-id rewrites by this segment.
func ElectionID(favID string) string {
	if i := strings.Index(favID, sep); i >= 0 {
		return favID[:i]
	}
	return favID
}
