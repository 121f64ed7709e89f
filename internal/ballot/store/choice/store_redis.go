package choice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ballotguide/internal/ballot/models"
	"ballotguide/pkg/platform/sentinel"
)

const choiceKeyPrefix = "choice:user:"

// RedisStore keeps pending choices in Redis with a server-side TTL. This is
// the production implementation; conversation turns may land on different
// instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed choice store.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, userID string, choice *models.ChoiceContext) error {
	if choice == nil {
		return s.Clear(ctx, userID)
	}
	body, err := json.Marshal(choice)
	if err != nil {
		return fmt.Errorf("encode choice: %w", err)
	}
	if err := s.client.Set(ctx, choiceKeyPrefix+userID, body, s.ttl).Err(); err != nil {
		return fmt.Errorf("save choice: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*models.ChoiceContext, error) {
	body, err := s.client.Get(ctx, choiceKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get choice: %w", err)
	}
	var choice models.ChoiceContext
	if err := json.Unmarshal(body, &choice); err != nil {
		return nil, fmt.Errorf("decode choice: %w", err)
	}
	return &choice, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, choiceKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("clear choice: %w", err)
	}
	return nil
}
