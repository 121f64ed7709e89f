package civic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ballotguide/internal/platform/config"
	"ballotguide/pkg/platform/sentinel"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.CivicConfig{BaseURL: srv.URL, APIKey: "test-key", Timeout: time.Second})
}

func TestVoterInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/voterinfo", r.URL.Path)
		require.Equal(t, "Wichita, KS", r.URL.Query().Get("address"))
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.Empty(t, r.URL.Query().Get("electionId"))
		w.Write([]byte(`{
			"election": {"id": "4499", "name": "General", "electionDay": "2018-11-06"},
			"contests": [{"office": "Governor", "district": {"name": "Kansas"}}]
		}`))
	})

	resp, err := client.VoterInfo(context.Background(), "Wichita, KS")
	require.NoError(t, err)
	require.Equal(t, "4499", resp.Election.ID)
	require.Equal(t, "2018-11-06", resp.Election.ElectionDay)
	require.Len(t, resp.Contests, 1)
	require.Equal(t, "Governor", resp.Contests[0].Office)
}

func TestVoterInfoFixtureAddressPinsElection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2000", r.URL.Query().Get("electionId"))
		w.Write([]byte(`{}`))
	})

	_, err := client.VoterInfo(context.Background(), "1263 Pacific Ave, Kansas City, KS")
	require.NoError(t, err)
}

func TestVoterInfoNoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 400}}`, http.StatusBadRequest)
	})

	_, err := client.VoterInfo(context.Background(), "nowhere")
	require.ErrorIs(t, err, sentinel.ErrNoData)
}

func TestVoterInfoServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.VoterInfo(context.Background(), "Wichita, KS")
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestRepresentatives(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/representatives", r.URL.Path)
		require.Equal(t, "false", r.URL.Query().Get("includeOffices"))
		w.Write([]byte(`{
			"divisions": {
				"ocd-division/country:us": {"name": "United States"},
				"ocd-division/country:us/state:ks": {"name": "Kansas"}
			}
		}`))
	})

	resp, err := client.Representatives(context.Background(), "Wichita, KS")
	require.NoError(t, err)
	require.Len(t, resp.Divisions, 2)
	require.Equal(t, "Kansas", resp.Divisions["ocd-division/country:us/state:ks"].Name)
}
