// Package supplement persists the per-election favorite-id supplements that
// let previously bookmarked candidates survive upstream id changes.
//
// Writes merge: a publication only adds or overwrites the mappings it
// carries, it never removes mappings published earlier.
package supplement

import (
	"context"

	"ballotguide/internal/ballot/models"
)

// Store is the favorite-id supplement store, keyed by election id.
type Store interface {
	// Merge folds the given mappings into the election's supplement.
	Merge(ctx context.Context, electionID string, supplement models.Supplement) error
	// Get returns the supplement for an election, or sentinel.ErrNotFound.
	Get(ctx context.Context, electionID string) (*models.Supplement, error)
}
