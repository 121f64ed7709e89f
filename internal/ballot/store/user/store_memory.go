package user

import (
	"context"
	"sync"

	"ballotguide/internal/ballot/models"
	"ballotguide/pkg/platform/sentinel"
)

// InMemoryStore keeps user records in process memory. Suitable for tests
// and single-instance development; production uses PostgresStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*record
}

type record struct {
	trigger   *models.AddressTrigger
	snapshots map[models.Source]*models.Election
	election  *models.Election
}

// NewInMemory creates an empty in-memory user store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*record)}
}

func (s *InMemoryStore) SaveTrigger(ctx context.Context, userID string, trigger models.AddressTrigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(userID).trigger = &trigger
	return nil
}

func (s *InMemoryStore) Trigger(ctx context.Context, userID string) (*models.AddressTrigger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.records[userID]
	if r == nil || r.trigger == nil {
		return nil, sentinel.ErrNotFound
	}
	trigger := *r.trigger
	return &trigger, nil
}

func (s *InMemoryStore) SaveSnapshot(ctx context.Context, userID string, election *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(userID).snapshots[election.Source] = election
	return nil
}

func (s *InMemoryStore) Snapshot(ctx context.Context, userID string, source models.Source) (*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.records[userID]
	if r == nil || r.snapshots[source] == nil {
		return nil, sentinel.ErrNotFound
	}
	return r.snapshots[source], nil
}

func (s *InMemoryStore) SaveElection(ctx context.Context, userID string, election *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(userID).election = election
	return nil
}

func (s *InMemoryStore) Election(ctx context.Context, userID string) (*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.records[userID]
	if r == nil || r.election == nil {
		return nil, sentinel.ErrNotFound
	}
	return r.election, nil
}

func (s *InMemoryStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
	return nil
}

// getOrCreate must be called while holding s.mu.
func (s *InMemoryStore) getOrCreate(userID string) *record {
	if r := s.records[userID]; r != nil {
		return r
	}
	r := &record{snapshots: make(map[models.Source]*models.Election)}
	s.records[userID] = r
	return r
}
