package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for cached decisions, e.g. access:channel:<user>:<resource>
	accessKeyPrefix = "access:"

	allowedValue = "1"
	deniedValue  = "0"
)

// Config holds configuration for the Redis access decision cache
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed access decision cache
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

func decisionKey(scope Scope, userID, resourceID string) string {
	return fmt.Sprintf("%s%s:%s:%s", accessKeyPrefix, scope, userID, resourceID)
}

// GetDecision looks up a cached decision. A missing key is reported through
// Found, not an error.
func (r *redisRepository) GetDecision(ctx context.Context, input *GetDecisionInput) (*GetDecisionOutput, error) {
	if input == nil || input.UserID == "" || input.ResourceID == "" {
		return nil, errors.New("input, user ID and resource ID cannot be empty")
	}

	value, err := r.client.Get(ctx, decisionKey(input.Scope, input.UserID, input.ResourceID)).Result()
	if err != nil {
		if err == redis.Nil {
			return &GetDecisionOutput{Found: false}, nil
		}
		return nil, fmt.Errorf("failed to get access decision: %w", err)
	}

	return &GetDecisionOutput{
		Allowed: value == allowedValue,
		Found:   true,
	}, nil
}

// SetDecision caches a decision with the given TTL.
func (r *redisRepository) SetDecision(ctx context.Context, input *SetDecisionInput) error {
	if input == nil || input.UserID == "" || input.ResourceID == "" {
		return errors.New("input, user ID and resource ID cannot be empty")
	}

	value := deniedValue
	if input.Allowed {
		value = allowedValue
	}

	key := decisionKey(input.Scope, input.UserID, input.ResourceID)
	if err := r.client.Set(ctx, key, value, input.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set access decision: %w", err)
	}

	return nil
}
