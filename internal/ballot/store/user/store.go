// Package user persists per-user ballot state: the address trigger that
// started the current lookup, the raw snapshot from each upstream source,
// and the merged election served to the conversation.
//
// Snapshots are kept per source so a refresh of one source can re-merge
// against the latest copy of the other, in either arrival order.
package user

import (
	"context"

	"ballotguide/internal/ballot/models"
)

// Store is the per-user ballot record store.
type Store interface {
	// SaveTrigger records the address that initiated the current lookup.
	SaveTrigger(ctx context.Context, userID string, trigger models.AddressTrigger) error
	// Trigger returns the current address trigger, or sentinel.ErrNotFound.
	Trigger(ctx context.Context, userID string) (*models.AddressTrigger, error)

	// SaveSnapshot stores the raw per-source election, keyed by
	// election.Source.
	SaveSnapshot(ctx context.Context, userID string, election *models.Election) error
	// Snapshot returns the stored snapshot for one source, or
	// sentinel.ErrNotFound.
	Snapshot(ctx context.Context, userID string, source models.Source) (*models.Election, error)

	// SaveElection stores the merged election.
	SaveElection(ctx context.Context, userID string, election *models.Election) error
	// Election returns the merged election, or sentinel.ErrNotFound.
	Election(ctx context.Context, userID string) (*models.Election, error)

	// Clear removes every record for the user.
	Clear(ctx context.Context, userID string) error
}
