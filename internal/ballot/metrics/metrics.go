// Package metrics holds the Prometheus instruments for the ballot service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshDuration observes end-to-end ballot refresh latency per source.
	RefreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ballotguide_refresh_duration_seconds",
		Help:    "Latency of upstream ballot refreshes by source",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"source"})

	// Merges counts reconciliations by which source won precedence.
	Merges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ballotguide_merges_total",
		Help: "Cross-source election merges by winning source",
	}, []string{"source"})

	// FavIDRewrites counts favorite ids moved to their canonical form.
	FavIDRewrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ballotguide_favid_rewrites_total",
		Help: "Favorite ids rewritten to supplement-provided values",
	})

	// FavIDCollisions counts supplement mappings that produced a favorite id
	// already taken inside the same contest.
	FavIDCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ballotguide_favid_collisions_total",
		Help: "Favorite id collisions detected during merge",
	})

	// ResolveOutcomes counts resolver runs by kind (contest, candidate,
	// choice) and outcome (matched, ambiguous, none).
	ResolveOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ballotguide_resolve_outcomes_total",
		Help: "Utterance resolution outcomes",
	}, []string{"kind", "outcome"})

	// IndexRefreshes counts division election index rebuilds.
	IndexRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ballotguide_index_refreshes_total",
		Help: "Division election index rebuilds",
	})
)
