package division

import (
	"context"
	"sort"
	"sync"
	"time"

	"ballotguide/internal/ballot/models"
	"ballotguide/pkg/requestcontext"
)

// InMemoryStore keeps the election index in process memory.
type InMemoryStore struct {
	mu          sync.RWMutex
	elections   []models.DivisionElection
	refreshedAt time.Time
}

// NewInMemory creates an empty in-memory division index.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) ReplaceAll(ctx context.Context, elections []models.DivisionElection, refreshedAt time.Time) error {
	sorted := make([]models.DivisionElection, len(elections))
	copy(sorted, elections)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ElectionDay != sorted[j].ElectionDay {
			return sorted[i].ElectionDay < sorted[j].ElectionDay
		}
		return sorted[i].ID < sorted[j].ID
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections = sorted
	s.refreshedAt = refreshedAt
	return nil
}

func (s *InMemoryStore) Upcoming(ctx context.Context) ([]models.DivisionElection, error) {
	today := requestcontext.Now(ctx).Format(DayFormat)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var upcoming []models.DivisionElection
	for _, e := range s.elections {
		if e.ElectionDay >= today {
			upcoming = append(upcoming, e)
		}
	}
	return upcoming, nil
}

func (s *InMemoryStore) ByDay(ctx context.Context, day string) ([]models.DivisionElection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []models.DivisionElection
	for _, e := range s.elections {
		if e.ElectionDay == day {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

func (s *InMemoryStore) RefreshedAt(ctx context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt, nil
}
