// Package service orchestrates the ballot lookup flow: provider fetches,
// snapshot compilation, cross-source merge, persistence, and the
// conversational resolve/choose operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ballotguide/internal/ballot/events"
	"ballotguide/internal/ballot/models"
	"ballotguide/internal/ballot/store/choice"
	"ballotguide/internal/ballot/store/division"
	"ballotguide/internal/ballot/store/supplement"
	"ballotguide/internal/ballot/store/user"
	"ballotguide/internal/civic"
	"ballotguide/pkg/platform/sentinel"
	"ballotguide/pkg/requestcontext"
)

// Default staleness windows; overridable through options.
const (
	defaultUserDataTTL = 12 * time.Hour
	defaultIndexTTL    = 3 * time.Hour
)

// CivicAPI is the slice of the provider client the service needs.
type CivicAPI interface {
	VoterInfo(ctx context.Context, address string) (*civic.VoterInfoResponse, error)
	Representatives(ctx context.Context, address string) (*civic.RepresentativesResponse, error)
	Elections(ctx context.Context) (*civic.ElectionListResponse, error)
}

// Service is the ballot lookup core.
type Service struct {
	users       user.Store
	supplements supplement.Store
	divisions   division.Store
	choices     choice.Store
	civic       CivicAPI
	publisher   events.Publisher
	logger      *slog.Logger

	userDataTTL time.Duration
	indexTTL    time.Duration

	// applyMu serializes snapshot application so the later pipeline always
	// merges against the earlier one's persisted snapshot.
	applyMu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublisher sets the change-notification publisher.
func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

// WithUserDataTTL overrides how old per-user provider data may get before
// the next SetAddress triggers a refetch.
func WithUserDataTTL(ttl time.Duration) Option {
	return func(s *Service) { s.userDataTTL = ttl }
}

// WithIndexTTL overrides the election index staleness window.
func WithIndexTTL(ttl time.Duration) Option {
	return func(s *Service) { s.indexTTL = ttl }
}

// New constructs the ballot service.
func New(users user.Store, supplements supplement.Store, divisions division.Store, choices choice.Store, api CivicAPI, opts ...Option) (*Service, error) {
	if users == nil || supplements == nil || divisions == nil || choices == nil {
		return nil, fmt.Errorf("all stores are required")
	}
	if api == nil {
		return nil, fmt.Errorf("civic client is required")
	}

	s := &Service{
		users:       users,
		supplements: supplements,
		divisions:   divisions,
		choices:     choices,
		civic:       api,
		publisher:   events.NoopPublisher{},
		logger:      slog.Default(),
		userDataTTL: defaultUserDataTTL,
		indexTTL:    defaultIndexTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetAddress records the user's voting address and refreshes the ballot
// from both providers. A repeated call with the same address inside the
// staleness window serves the persisted election without refetching. A new
// address wipes everything derived from the old one first.
func (s *Service) SetAddress(ctx context.Context, userID, address, lang string) (*models.Election, error) {
	if address == "" {
		return nil, fmt.Errorf("address is required: %w", sentinel.ErrConflict)
	}
	now := requestcontext.Now(ctx)

	trigger, err := s.users.Trigger(ctx, userID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("load address trigger: %w", err)
	}

	if trigger != nil && trigger.Address == address {
		age := now.Sub(time.Unix(trigger.RefreshedAt, 0))
		if age >= 0 && age < s.userDataTTL {
			if election, err := s.users.Election(ctx, userID); err == nil {
				return election, nil
			} else if !errors.Is(err, sentinel.ErrNotFound) {
				return nil, fmt.Errorf("load election: %w", err)
			}
		}
	}

	if trigger != nil && trigger.Address != address {
		// Snapshots and the merged election describe the old address.
		if err := s.users.Clear(ctx, userID); err != nil {
			return nil, fmt.Errorf("clear previous address data: %w", err)
		}
		if err := s.choices.Clear(ctx, userID); err != nil {
			return nil, fmt.Errorf("clear pending choice: %w", err)
		}
	}

	if err := s.users.SaveTrigger(ctx, userID, models.AddressTrigger{
		Address:     address,
		Lang:        lang,
		RefreshedAt: now.Unix(),
	}); err != nil {
		return nil, fmt.Errorf("save address trigger: %w", err)
	}

	if err := s.refresh(ctx, userID, address, lang); err != nil {
		return nil, err
	}

	election, err := s.users.Election(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, sentinel.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("load election: %w", err)
	}
	return election, nil
}

// ClearAddress forgets the user's address and everything derived from it.
func (s *Service) ClearAddress(ctx context.Context, userID string) error {
	if err := s.users.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear user records: %w", err)
	}
	if err := s.choices.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear pending choice: %w", err)
	}
	return nil
}

// Election returns the user's persisted upcoming election.
func (s *Service) Election(ctx context.Context, userID string) (*models.Election, error) {
	election, err := s.users.Election(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, sentinel.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("load election: %w", err)
	}
	return election, nil
}

// VotingLocations returns the merged voting locations of the upcoming
// election.
func (s *Service) VotingLocations(ctx context.Context, userID string) ([]models.VotingLocation, error) {
	election, err := s.Election(ctx, userID)
	if err != nil {
		return nil, err
	}
	return election.VotingLocations, nil
}

// Contests returns the contests of the upcoming election.
func (s *Service) Contests(ctx context.Context, userID string) ([]models.Contest, error) {
	election, err := s.Election(ctx, userID)
	if err != nil {
		return nil, err
	}
	return election.Contests, nil
}
