package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	require.Equal(t,
		"ocd-division,country:us,state:de",
		Sanitize("ocd-division/country:us/state:de"))
	require.Equal(t, "no slashes", Sanitize("no slashes"))
}

func TestBallotFavID(t *testing.T) {
	got := BallotFavID("4499", "STATEWIDE", "UNITED STATES SENATOR", "KERRI EVELYN HARRIS")
	require.Equal(t, "4499|STATEWIDE|UNITED STATES SENATOR|KERRI EVELYN HARRIS", got)
}

func TestDivisionsFavID(t *testing.T) {
	got := DivisionsFavID("20180906", "ocd-division/country:us/state:de", "senate", "KerriEvelynHarris")
	require.Equal(t, "20180906|ocd-division,country:us,state:de|senate|KerriEvelynHarris", got)
}

func TestCanonical(t *testing.T) {
	got := Canonical("20181106", "ocd-division/country:us", "governor", "c42")
	require.Equal(t, "20181106|ocd-division,country:us|governor|c42", got)
}

func TestElectionID(t *testing.T) {
	require.Equal(t, "4499", ElectionID("4499|STATEWIDE|UNITED STATES SENATOR|X"))
	require.Equal(t, "bare", ElectionID("bare"))
}
