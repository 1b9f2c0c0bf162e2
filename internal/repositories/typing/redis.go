package typing

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for per-channel typing sets
	typingKeyPrefix = "typing:"
)

// Config holds configuration for the Redis typing state repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed typing state repository
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

// AddTyper adds the user to the channel's typing set and refreshes the set's
// TTL so the whole entry self-expires.
func (r *redisRepository) AddTyper(ctx context.Context, input *AddTyperInput) error {
	if input == nil || input.ChannelID == "" || input.UserID == "" {
		return errors.New("input, channel ID and user ID cannot be empty")
	}

	key := fmt.Sprintf("%s%s", typingKeyPrefix, input.ChannelID)

	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, key, input.UserID)
	pipe.Expire(ctx, key, input.TTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add typer: %w", err)
	}

	return nil
}

// RemoveTyper removes the user from the channel's typing set.
func (r *redisRepository) RemoveTyper(ctx context.Context, input *RemoveTyperInput) error {
	if input == nil || input.ChannelID == "" || input.UserID == "" {
		return errors.New("input, channel ID and user ID cannot be empty")
	}

	key := fmt.Sprintf("%s%s", typingKeyPrefix, input.ChannelID)
	if err := r.client.SRem(ctx, key, input.UserID).Err(); err != nil {
		return fmt.Errorf("failed to remove typer: %w", err)
	}

	return nil
}

// GetTypers returns the members of the channel's typing set. An expired or
// absent set means nobody is typing.
func (r *redisRepository) GetTypers(ctx context.Context, input *GetTypersInput) ([]string, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	key := fmt.Sprintf("%s%s", typingKeyPrefix, input.ChannelID)
	users, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get typers: %w", err)
	}

	return users, nil
}
