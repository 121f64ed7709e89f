// Package choice persists the short-lived disambiguation context between
// conversation turns. Entries expire on their own; a stale "the first one"
// should find nothing rather than a choice from a different question.
package choice

import (
	"context"

	"ballotguide/internal/ballot/models"
)

// Store is the per-user pending-choice store.
type Store interface {
	// Save replaces the user's pending choice and restarts its TTL.
	Save(ctx context.Context, userID string, choice *models.ChoiceContext) error
	// Get returns the pending choice, or sentinel.ErrNotFound when none is
	// pending or it has expired.
	Get(ctx context.Context, userID string) (*models.ChoiceContext, error)
	// Clear drops the pending choice.
	Clear(ctx context.Context, userID string) error
}
