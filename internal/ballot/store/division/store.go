// Package division persists the election index built from OCD division
// data: which elections exist, on which day, for which divisions. The index
// is global (not per user) and is replaced wholesale on each refresh.
package division

import (
	"context"
	"time"

	"ballotguide/internal/ballot/models"
)

// DayFormat is the lexically sortable day encoding used across the index.
const DayFormat = "20060102"

// Store is the division election index.
type Store interface {
	// ReplaceAll swaps the entire index for a freshly built one.
	ReplaceAll(ctx context.Context, elections []models.DivisionElection, refreshedAt time.Time) error
	// Upcoming returns elections on or after the request's current day,
	// ordered by day then id.
	Upcoming(ctx context.Context) ([]models.DivisionElection, error)
	// ByDay returns the elections held on an exact day.
	ByDay(ctx context.Context, day string) ([]models.DivisionElection, error)
	// RefreshedAt reports when the index was last rebuilt; the zero time
	// means never.
	RefreshedAt(ctx context.Context) (time.Time, error)
}
