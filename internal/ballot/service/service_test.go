package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ballotguide/internal/ballot/events"
	"ballotguide/internal/ballot/models"
	"ballotguide/internal/ballot/store/choice"
	"ballotguide/internal/ballot/store/division"
	"ballotguide/internal/ballot/store/supplement"
	"ballotguide/internal/ballot/store/user"
	"ballotguide/internal/civic"
	"ballotguide/pkg/platform/sentinel"
	"ballotguide/pkg/requestcontext"
)

const (
	testAddress = "1263 Pacific Ave. Kansas City KS"
	testUser    = "user-1"
	ksDivision  = "ocd-division/country:us/state:ks"
)

var baseTime = time.Date(2018, 9, 1, 12, 0, 0, 0, time.UTC)

type fakeCivic struct {
	mu              sync.Mutex
	voterInfoCalls  int
	repCalls        int
	electionsCalls  int
	voterInfo       *civic.VoterInfoResponse
	voterInfoErr    error
	representatives *civic.RepresentativesResponse
	repsErr         error
	elections       *civic.ElectionListResponse
	electionsErr    error
	onVoterInfo     func(ctx context.Context)
}

func (f *fakeCivic) VoterInfo(ctx context.Context, address string) (*civic.VoterInfoResponse, error) {
	f.mu.Lock()
	f.voterInfoCalls++
	hook := f.onVoterInfo
	f.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}
	return f.voterInfo, f.voterInfoErr
}

func (f *fakeCivic) Representatives(ctx context.Context, address string) (*civic.RepresentativesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repCalls++
	return f.representatives, f.repsErr
}

func (f *fakeCivic) Elections(ctx context.Context) (*civic.ElectionListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.electionsCalls++
	return f.elections, f.electionsErr
}

func (f *fakeCivic) counts() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voterInfoCalls, f.repCalls, f.electionsCalls
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.ElectionUpdated
}

func (f *fakePublisher) ElectionUpdated(_ context.Context, event events.ElectionUpdated) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() {}

func (f *fakePublisher) published() []events.ElectionUpdated {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.ElectionUpdated(nil), f.events...)
}

type testEnv struct {
	svc         *Service
	users       *user.InMemoryStore
	supplements *supplement.InMemoryStore
	divisions   *division.InMemoryStore
	choices     *choice.InMemoryStore
	civic       *fakeCivic
	publisher   *fakePublisher
}

func newTestEnv(t *testing.T, api *fakeCivic) *testEnv {
	t.Helper()
	env := &testEnv{
		users:       user.NewInMemory(),
		supplements: supplement.NewInMemory(),
		divisions:   division.NewInMemory(),
		choices:     choice.NewInMemory(2 * time.Minute),
		civic:       api,
		publisher:   &fakePublisher{},
	}
	svc, err := New(env.users, env.supplements, env.divisions, env.choices, api,
		WithPublisher(env.publisher))
	require.NoError(t, err)
	env.svc = svc
	return env
}

func testCtx(at time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), at)
}

func voterInfoFixture() *civic.VoterInfoResponse {
	return &civic.VoterInfoResponse{
		Election: &civic.ElectionRef{
			ID:          "2000",
			Name:        "General Election",
			ElectionDay: "2018-11-06",
		},
		Contests: []civic.ContestInfo{{
			Office:   "United States Senator",
			District: civic.District{Name: "Kansas"},
			Candidates: []civic.CandidateInfo{{
				Name:  "Kerri Evelyn Harris",
				Party: "Democratic",
			}},
		}},
	}
}

func representativesFixture() *civic.RepresentativesResponse {
	return &civic.RepresentativesResponse{
		Divisions: map[string]civic.Division{
			ksDivision: {Name: "Kansas"},
		},
	}
}

const authoritativeFavID = "2000|Kansas|United States Senator|Kerri Evelyn Harris"

// canonical id for the indexed candidate: day, division, contest id,
// candidate id, with path separators sanitized.
const canonicalFavID = "20181106|ocd-division,country:us,state:ks|senate|KerriEvelynHarris"

func indexFixture() []models.DivisionElection {
	return []models.DivisionElection{{
		ID:          "ks-general",
		Name:        "General Election",
		ElectionDay: "20181106",
		Division:    ksDivision,
		Contests: []models.Contest{{
			ID:   "senate",
			Name: "United States Senator",
			Candidates: []models.Candidate{{
				ID:     "KerriEvelynHarris",
				Name:   "Kerri Evelyn Harris",
				Party:  "Democratic",
				FavIDs: []string{authoritativeFavID},
			}},
		}},
	}}
}

func (env *testEnv) seedIndex(t *testing.T, refreshedAt time.Time) {
	t.Helper()
	require.NoError(t, env.divisions.ReplaceAll(context.Background(), indexFixture(), refreshedAt))
}

func TestSetAddressRefreshesAndPersists(t *testing.T) {
	api := &fakeCivic{
		voterInfo:       voterInfoFixture(),
		representatives: representativesFixture(),
	}
	env := newTestEnv(t, api)
	env.seedIndex(t, baseTime)
	ctx := testCtx(baseTime)

	election, err := env.svc.SetAddress(ctx, testUser, testAddress, "en")
	require.NoError(t, err)
	require.NotNil(t, election.Info)
	require.Equal(t, "2000", election.Info.ID)
	require.Equal(t, "20181106", election.Info.Day)
	require.NotEmpty(t, election.Contests)

	trigger, err := env.users.Trigger(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, testAddress, trigger.Address)
	require.Equal(t, baseTime.Unix(), trigger.RefreshedAt)

	require.NotEmpty(t, env.publisher.published())
}

func TestSetAddressServesFreshDataWithoutRefetch(t *testing.T) {
	api := &fakeCivic{
		voterInfo:       voterInfoFixture(),
		representatives: representativesFixture(),
	}
	env := newTestEnv(t, api)
	env.seedIndex(t, baseTime)

	_, err := env.svc.SetAddress(testCtx(baseTime), testUser, testAddress, "en")
	require.NoError(t, err)

	_, err = env.svc.SetAddress(testCtx(baseTime.Add(time.Hour)), testUser, testAddress, "en")
	require.NoError(t, err)

	voterCalls, repCalls, _ := api.counts()
	require.Equal(t, 1, voterCalls)
	require.Equal(t, 1, repCalls)
}

func TestSetAddressRefetchesWhenStale(t *testing.T) {
	api := &fakeCivic{
		voterInfo:       voterInfoFixture(),
		representatives: representativesFixture(),
		elections: &civic.ElectionListResponse{Elections: []civic.ElectionRef{
			{
				ID:            "ks-general",
				Name:          "General Election",
				ElectionDay:   "2018-11-06",
				OcdDivisionID: ksDivision,
			},
		}},
	}
	env := newTestEnv(t, api)
	env.seedIndex(t, baseTime)

	_, err := env.svc.SetAddress(testCtx(baseTime), testUser, testAddress, "en")
	require.NoError(t, err)

	_, err = env.svc.SetAddress(testCtx(baseTime.Add(13*time.Hour)), testUser, testAddress, "en")
	require.NoError(t, err)

	voterCalls, _, _ := api.counts()
	require.Equal(t, 2, voterCalls)
}

func TestSetAddressNewAddressWipesDerivedState(t *testing.T) {
	api := &fakeCivic{
		voterInfo:       voterInfoFixture(),
		representatives: representativesFixture(),
	}
	env := newTestEnv(t, api)
	env.seedIndex(t, baseTime)
	ctx := testCtx(baseTime)

	_, err := env.svc.SetAddress(ctx, testUser, testAddress, "en")
	require.NoError(t, err)
	require.NoError(t, env.choices.Save(ctx, testUser, &models.ChoiceContext{Contests: []int{0}}))

	newAddress := "500 Main St Topeka KS"
	_, err = env.svc.SetAddress(ctx, testUser, newAddress, "en")
	require.NoError(t, err)

	snapshot, err := env.users.Snapshot(ctx, testUser, models.SourceVoterInfo)
	require.NoError(t, err)
	require.Equal(t, newAddress, snapshot.Address)

	_, err = env.choices.Get(ctx, testUser)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRefreshIsOrderIndependent(t *testing.T) {
	run := func(firstVoterInfo bool) *models.Election {
		api := &fakeCivic{
			voterInfo:       voterInfoFixture(),
			representatives: representativesFixture(),
		}
		env := newTestEnv(t, api)
		env.seedIndex(t, baseTime)
		ctx := testCtx(baseTime)

		require.NoError(t, env.users.SaveTrigger(ctx, testUser, models.AddressTrigger{
			Address:     testAddress,
			Lang:        "en",
			RefreshedAt: baseTime.Unix(),
		}))

		if firstVoterInfo {
			require.NoError(t, env.svc.refreshVoterInfo(ctx, testUser, testAddress, "en"))
			require.NoError(t, env.svc.refreshRepresentatives(ctx, testUser, testAddress, "en"))
		} else {
			require.NoError(t, env.svc.refreshRepresentatives(ctx, testUser, testAddress, "en"))
			require.NoError(t, env.svc.refreshVoterInfo(ctx, testUser, testAddress, "en"))
		}

		election, err := env.users.Election(ctx, testUser)
		require.NoError(t, err)
		return election
	}

	voterFirst := run(true)
	divisionsFirst := run(false)
	require.Equal(t, voterFirst, divisionsFirst)

	// Authoritative ballot won precedence and its candidate was rewritten to
	// the canonical favorite id published by the secondary pipeline.
	require.Equal(t, models.SourceVoterInfo, voterFirst.Source)
	cand := voterFirst.Contests[0].Candidates[0]
	require.Equal(t, canonicalFavID, cand.FavID)
	require.Equal(t, authoritativeFavID, cand.OldFavID)
	require.Equal(t, canonicalFavID, cand.CanonicalID)
	require.Equal(t, ksDivision, voterFirst.Contests[0].Division)
}

func TestRefreshPublishesSupplement(t *testing.T) {
	api := &fakeCivic{
		voterInfo:       voterInfoFixture(),
		representatives: representativesFixture(),
	}
	env := newTestEnv(t, api)
	env.seedIndex(t, baseTime)
	ctx := testCtx(baseTime)

	_, err := env.svc.SetAddress(ctx, testUser, testAddress, "en")
	require.NoError(t, err)

	supp, err := env.supplements.Get(ctx, "2000")
	require.NoError(t, err)
	require.Equal(t, canonicalFavID, supp.FavIDMap[authoritativeFavID])
}

func TestStaleWriteGuardAbortsRefresh(t *testing.T) {
	api := &fakeCivic{
		voterInfo:       voterInfoFixture(),
		representatives: representativesFixture(),
	}
	env := newTestEnv(t, api)
	ctx := testCtx(baseTime)

	require.NoError(t, env.users.SaveTrigger(ctx, testUser, models.AddressTrigger{
		Address: "somewhere else entirely",
	}))

	err := env.svc.refreshVoterInfo(ctx, testUser, testAddress, "en")
	require.ErrorIs(t, err, sentinel.ErrStale)

	_, err = env.users.Election(ctx, testUser)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestStaleWriteGuardCatchesMidFlightClear(t *testing.T) {
	env := newTestEnv(t, &fakeCivic{})
	env.civic.voterInfo = voterInfoFixture()
	env.civic.onVoterInfo = func(ctx context.Context) {
		// The user clears the address while the fetch is in flight.
		_ = env.users.Clear(ctx, testUser)
	}
	ctx := testCtx(baseTime)

	require.NoError(t, env.users.SaveTrigger(ctx, testUser, models.AddressTrigger{
		Address: testAddress,
	}))

	err := env.svc.refreshVoterInfo(ctx, testUser, testAddress, "en")
	require.ErrorIs(t, err, sentinel.ErrStale)
}

func TestRefreshToleratesMissingProviderData(t *testing.T) {
	api := &fakeCivic{
		voterInfoErr: sentinel.ErrNoData,
		repsErr:      sentinel.ErrNoData,
	}
	env := newTestEnv(t, api)
	ctx := testCtx(baseTime)

	_, err := env.svc.SetAddress(ctx, testUser, testAddress, "en")
	require.ErrorIs(t, err, sentinel.ErrNoData)
}

func TestClearAddress(t *testing.T) {
	api := &fakeCivic{
		voterInfo:       voterInfoFixture(),
		representatives: representativesFixture(),
	}
	env := newTestEnv(t, api)
	env.seedIndex(t, baseTime)
	ctx := testCtx(baseTime)

	_, err := env.svc.SetAddress(ctx, testUser, testAddress, "en")
	require.NoError(t, err)

	require.NoError(t, env.svc.ClearAddress(ctx, testUser))

	_, err = env.svc.Election(ctx, testUser)
	require.ErrorIs(t, err, sentinel.ErrNoData)
	_, err = env.users.Trigger(ctx, testUser)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestEnsureIndexRebuildsWhenStale(t *testing.T) {
	api := &fakeCivic{
		elections: &civic.ElectionListResponse{Elections: []civic.ElectionRef{
			{
				ID:            "ks-general",
				Name:          "General Election",
				ElectionDay:   "2018-11-06",
				OcdDivisionID: ksDivision,
			},
			{
				ID:            "co-general",
				Name:          "Colorado General",
				ElectionDay:   "2018-11-06",
				OcdDivisionID: "ocd-division/country:us/state:co",
			},
		}},
	}
	env := newTestEnv(t, api)
	// Stale by more than the 3h window.
	env.seedIndex(t, baseTime.Add(-4*time.Hour))
	ctx := testCtx(baseTime)

	env.svc.ensureIndex(ctx)

	_, _, electionsCalls := api.counts()
	require.Equal(t, 1, electionsCalls)

	upcoming, err := env.divisions.Upcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)

	// Previously published contests survive the rebuild.
	rebuilt, err := env.divisions.ByDay(ctx, "20181106")
	require.NoError(t, err)
	for _, e := range rebuilt {
		if e.ID == "ks-general" {
			require.NotEmpty(t, e.Contests)
		}
		if e.ID == "co-general" {
			require.Empty(t, e.Contests)
		}
	}
}

func TestEnsureIndexSkipsWhenFresh(t *testing.T) {
	api := &fakeCivic{}
	env := newTestEnv(t, api)
	env.seedIndex(t, baseTime.Add(-time.Hour))

	env.svc.ensureIndex(testCtx(baseTime))

	_, _, electionsCalls := api.counts()
	require.Zero(t, electionsCalls)
}
