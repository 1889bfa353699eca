package rosterdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key the roster document lives under.
const DefaultRedisKey = "scorekeeper:roster"

// redisClient is the subset of the go-redis API the repository needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisRepository stores the roster JSON document under a single Redis key.
type RedisRepository struct {
	client redisClient
	key    string
}

// NewRedisRepository creates a Redis-backed repository.
func NewRedisRepository(client redisClient, key string) *RedisRepository {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisRepository{client: client, key: key}
}

// Load reads the roster document. A missing key is an empty roster.
func (r *RedisRepository) Load(ctx context.Context) (rosterdomain.Roster, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return rosterdomain.Roster{}, nil
		}
		return nil, fmt.Errorf("failed to read roster key %q: %w", r.key, err)
	}

	roster, err := DecodeRoster(data)
	if err != nil {
		return nil, fmt.Errorf("roster key %q: %w", r.key, err)
	}
	return roster, nil
}

// Save overwrites the roster document. No expiry is set.
func (r *RedisRepository) Save(ctx context.Context, roster rosterdomain.Roster) error {
	data, err := EncodeRoster(roster)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save roster key %q: %w", r.key, err)
	}
	return nil
}
