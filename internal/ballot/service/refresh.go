package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ballotguide/internal/ballot/compile"
	"ballotguide/internal/ballot/events"
	"ballotguide/internal/ballot/merge"
	"ballotguide/internal/ballot/metrics"
	"ballotguide/internal/ballot/models"
	"ballotguide/internal/civic"
	"ballotguide/pkg/platform/sentinel"
	"ballotguide/pkg/requestcontext"
)

// refresh fetches both providers concurrently. Each pipeline compiles its
// snapshot, persists it, and re-runs the merge against the latest snapshot
// of the other source, so the outcome does not depend on arrival order.
func (s *Service) refresh(ctx context.Context, userID, address, lang string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.refreshVoterInfo(gctx, userID, address, lang)
	})
	g.Go(func() error {
		return s.refreshRepresentatives(gctx, userID, address, lang)
	})

	return g.Wait()
}

func (s *Service) refreshVoterInfo(ctx context.Context, userID, address, lang string) error {
	start := time.Now()
	defer func() {
		metrics.RefreshDuration.WithLabelValues(string(models.SourceVoterInfo)).
			Observe(time.Since(start).Seconds())
	}()

	resp, err := s.civic.VoterInfo(ctx, address)
	if errors.Is(err, sentinel.ErrNoData) {
		s.logger.Info("no voter info for address", "user_id", userID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch voter info: %w", err)
	}

	snapshot := compile.FromVoterInfo(resp, address, lang)
	return s.applySnapshot(ctx, userID, snapshot)
}

func (s *Service) refreshRepresentatives(ctx context.Context, userID, address, lang string) error {
	start := time.Now()
	defer func() {
		metrics.RefreshDuration.WithLabelValues(string(models.SourceDivisions)).
			Observe(time.Since(start).Seconds())
	}()

	resp, err := s.civic.Representatives(ctx, address)
	if errors.Is(err, sentinel.ErrNoData) {
		s.logger.Info("no divisions for address", "user_id", userID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch representatives: %w", err)
	}

	s.ensureIndex(ctx)

	snapshots, err := s.divisionSnapshots(ctx, resp.Divisions)
	if err != nil {
		return err
	}
	for i := range snapshots {
		compile.StampCanonicalIDs(&snapshots[i])
	}

	snapshot := compile.FromDivisions(snapshots, address, lang)
	s.publishSupplements(ctx, snapshot)
	return s.applySnapshot(ctx, userID, snapshot)
}

// divisionSnapshots selects the index entries belonging to the divisions an
// address is part of.
func (s *Service) divisionSnapshots(ctx context.Context, divisions map[string]civic.Division) ([]models.DivisionElection, error) {
	upcoming, err := s.divisions.Upcoming(ctx)
	if err != nil {
		return nil, fmt.Errorf("load election index: %w", err)
	}
	var snapshots []models.DivisionElection
	for _, e := range upcoming {
		if _, ok := divisions[e.Division]; ok {
			snapshots = append(snapshots, e)
		}
	}
	return snapshots, nil
}

// applySnapshot persists one source's snapshot and re-merges it with the
// latest counterpart. The trigger address is re-checked before each write:
// an address change that raced this refresh aborts it.
func (s *Service) applySnapshot(ctx context.Context, userID string, snapshot *models.Election) error {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if err := s.guardTrigger(ctx, userID, snapshot.Address); err != nil {
		return err
	}
	if err := s.users.SaveSnapshot(ctx, userID, snapshot); err != nil {
		return fmt.Errorf("save %s snapshot: %w", snapshot.Source, err)
	}

	counterpartSource := models.SourceDivisions
	if snapshot.Source == models.SourceDivisions {
		counterpartSource = models.SourceVoterInfo
	}
	counterpart, err := s.users.Snapshot(ctx, userID, counterpartSource)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("load %s snapshot: %w", counterpartSource, err)
	}

	authoritative, secondary := snapshot, counterpart
	if snapshot.Source == models.SourceDivisions {
		authoritative, secondary = counterpart, snapshot
	}

	supp := s.supplementFor(ctx, authoritative)
	merged, stats := merge.Elections(authoritative, secondary, supp)

	metrics.FavIDRewrites.Add(float64(stats.Rewrites))
	metrics.FavIDCollisions.Add(float64(len(stats.Collisions)))
	for _, collision := range stats.Collisions {
		s.logger.Warn("favorite id collision",
			"user_id", userID,
			"contest", collision.Contest,
			"fav_id", collision.FavID)
	}

	if merged == nil {
		return nil
	}
	metrics.Merges.WithLabelValues(string(merged.Source)).Inc()

	if err := s.guardTrigger(ctx, userID, snapshot.Address); err != nil {
		return err
	}
	if err := s.users.SaveElection(ctx, userID, merged); err != nil {
		return fmt.Errorf("save merged election: %w", err)
	}

	event := events.ElectionUpdated{
		UserID:    userID,
		Source:    string(merged.Source),
		UpdatedAt: requestcontext.Now(ctx),
	}
	if merged.Info != nil {
		event.ElectionID = merged.Info.ID
	}
	if err := s.publisher.ElectionUpdated(ctx, event); err != nil {
		s.logger.Error("publish election updated", "user_id", userID, "error", err)
	}
	return nil
}

// guardTrigger rejects writes computed for an address the user has since
// replaced or cleared.
func (s *Service) guardTrigger(ctx context.Context, userID, address string) error {
	trigger, err := s.users.Trigger(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("address cleared during refresh: %w", sentinel.ErrStale)
	}
	if err != nil {
		return fmt.Errorf("load address trigger: %w", err)
	}
	if trigger.Address != address {
		return fmt.Errorf("address changed during refresh: %w", sentinel.ErrStale)
	}
	return nil
}

// supplementFor loads the favorite-id supplement for the authoritative
// election. Missing supplements are normal; lookup errors only cost the
// rewrite, not the refresh.
func (s *Service) supplementFor(ctx context.Context, authoritative *models.Election) *models.Supplement {
	if authoritative == nil || authoritative.Info == nil || authoritative.Info.ID == "" {
		return nil
	}
	supp, err := s.supplements.Get(ctx, authoritative.Info.ID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Error("load supplement", "election_id", authoritative.Info.ID, "error", err)
		return nil
	}
	return supp
}

// publishSupplements folds the canonical-id mappings carried by a secondary
// snapshot into the supplement store, grouped by the election id embedded
// in each historical favorite id.
func (s *Service) publishSupplements(ctx context.Context, snapshot *models.Election) {
	for electionID, supp := range merge.BuildSupplements(snapshot) {
		if err := s.supplements.Merge(ctx, electionID, supp); err != nil {
			s.logger.Error("merge supplement", "election_id", electionID, "error", err)
		}
	}
}

// ensureIndex rebuilds the division election index when it is older than
// the staleness window. Contests already published for an election survive
// the rebuild; the provider catalogue only carries metadata. A failed
// rebuild falls back to the existing index.
func (s *Service) ensureIndex(ctx context.Context) {
	refreshedAt, err := s.divisions.RefreshedAt(ctx)
	if err != nil {
		s.logger.Error("election index age", "error", err)
		return
	}
	now := requestcontext.Now(ctx)
	if !refreshedAt.IsZero() && now.Sub(refreshedAt) < s.indexTTL {
		return
	}

	catalogue, err := s.civic.Elections(ctx)
	if err != nil {
		s.logger.Error("fetch election catalogue", "error", err)
		return
	}

	existing, err := s.divisions.Upcoming(ctx)
	if err != nil {
		s.logger.Error("load election index", "error", err)
		return
	}
	published := make(map[string]models.DivisionElection, len(existing))
	for _, e := range existing {
		published[e.ID] = e
	}

	elections := make([]models.DivisionElection, 0, len(catalogue.Elections))
	for _, ref := range catalogue.Elections {
		entry := models.DivisionElection{
			ID:          ref.ID,
			Name:        ref.Name,
			ElectionDay: strings.ReplaceAll(ref.ElectionDay, "-", ""),
			Division:    ref.OcdDivisionID,
		}
		if prev, ok := published[ref.ID]; ok {
			entry.Contests = prev.Contests
		}
		elections = append(elections, entry)
	}

	if err := s.divisions.ReplaceAll(ctx, elections, now); err != nil {
		s.logger.Error("replace election index", "error", err)
		return
	}
	metrics.IndexRefreshes.Inc()
}
