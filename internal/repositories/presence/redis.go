package presence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for presence records
	presenceKeyPrefix = "presence:"

	onlineValue = "online"
)

// Config holds configuration for the Redis presence repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed presence repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SetOnline writes an online record with the given TTL. Refreshing an
// existing record extends its expiry, which is what suppresses a pending
// offline reconciliation after a quick reconnect.
func (r *redisRepository) SetOnline(ctx context.Context, input *SetOnlineInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	key := fmt.Sprintf("%s%s", presenceKeyPrefix, input.UserID)
	if err := r.client.Set(ctx, key, onlineValue, input.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set presence record: %w", err)
	}

	return nil
}

// IsOnline reports whether a presence record exists for the user.
func (r *redisRepository) IsOnline(ctx context.Context, input *IsOnlineInput) (bool, error) {
	if input == nil || input.UserID == "" {
		return false, errors.New("input and user ID cannot be empty")
	}

	key := fmt.Sprintf("%s%s", presenceKeyPrefix, input.UserID)
	_, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get presence record: %w", err)
	}

	return true, nil
}

// SetOffline deletes the user's presence record.
func (r *redisRepository) SetOffline(ctx context.Context, input *SetOfflineInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	key := fmt.Sprintf("%s%s", presenceKeyPrefix, input.UserID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete presence record: %w", err)
	}

	return nil
}
