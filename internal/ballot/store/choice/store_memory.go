package choice

import (
	"context"
	"sync"
	"time"

	"ballotguide/internal/ballot/models"
	"ballotguide/pkg/platform/sentinel"
	"ballotguide/pkg/requestcontext"
)

// InMemoryStore keeps pending choices in process memory with lazy expiry.
type InMemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	choices map[string]*entry
}

type entry struct {
	choice    models.ChoiceContext
	expiresAt time.Time
}

// NewInMemory creates an empty in-memory choice store.
func NewInMemory(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{ttl: ttl, choices: make(map[string]*entry)}
}

func (s *InMemoryStore) Save(ctx context.Context, userID string, choice *models.ChoiceContext) error {
	if choice == nil {
		return s.Clear(ctx, userID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.choices[userID] = &entry{
		choice:    *choice,
		expiresAt: requestcontext.Now(ctx).Add(s.ttl),
	}
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, userID string) (*models.ChoiceContext, error) {
	s.mu.RLock()
	e := s.choices[userID]
	s.mu.RUnlock()

	if e == nil {
		return nil, sentinel.ErrNotFound
	}
	if requestcontext.Now(ctx).After(e.expiresAt) {
		s.mu.Lock()
		if s.choices[userID] == e {
			delete(s.choices, userID)
		}
		s.mu.Unlock()
		return nil, sentinel.ErrNotFound
	}
	choice := e.choice
	return &choice, nil
}

func (s *InMemoryStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.choices, userID)
	return nil
}
