package supplement

import (
	"context"
	"sync"

	"ballotguide/internal/ballot/models"
	"ballotguide/pkg/platform/sentinel"
)

// InMemoryStore keeps supplements in process memory.
type InMemoryStore struct {
	mu          sync.RWMutex
	supplements map[string]map[string]string
}

// NewInMemory creates an empty in-memory supplement store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{supplements: make(map[string]map[string]string)}
}

func (s *InMemoryStore) Merge(ctx context.Context, electionID string, supplement models.Supplement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.supplements[electionID]
	if existing == nil {
		existing = make(map[string]string, len(supplement.FavIDMap))
		s.supplements[electionID] = existing
	}
	for from, to := range supplement.FavIDMap {
		existing[from] = to
	}
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, electionID string) (*models.Supplement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	existing, ok := s.supplements[electionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	favIDMap := make(map[string]string, len(existing))
	for from, to := range existing {
		favIDMap[from] = to
	}
	return &models.Supplement{FavIDMap: favIDMap}, nil
}
