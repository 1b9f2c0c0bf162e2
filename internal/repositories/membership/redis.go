package membership

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// Keys look like user:<id>:guilds
	guildsKeyPrefix = "user:"
	guildsKeySuffix = ":guilds"
)

// Config holds configuration for the Redis membership cache
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed membership cache
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

func guildsKey(userID string) string {
	return fmt.Sprintf("%s%s%s", guildsKeyPrefix, userID, guildsKeySuffix)
}

// GetGuilds returns the cached guild set for a user.
func (r *redisRepository) GetGuilds(ctx context.Context, input *GetGuildsInput) (*GetGuildsOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	raw, err := r.client.Get(ctx, guildsKey(input.UserID)).Result()
	if err != nil {
		if err == redis.Nil {
			return &GetGuildsOutput{Found: false}, nil
		}
		return nil, fmt.Errorf("failed to get cached guilds: %w", err)
	}

	var guildIDs []string
	if err := json.Unmarshal([]byte(raw), &guildIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached guilds: %w", err)
	}

	return &GetGuildsOutput{
		GuildIDs: guildIDs,
		Found:    true,
	}, nil
}

// SetGuilds caches the user's guild set with a TTL.
func (r *redisRepository) SetGuilds(ctx context.Context, input *SetGuildsInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	raw, err := json.Marshal(input.GuildIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal guilds: %w", err)
	}

	if err := r.client.Set(ctx, guildsKey(input.UserID), raw, input.TTL).Err(); err != nil {
		return fmt.Errorf("failed to cache guilds: %w", err)
	}

	return nil
}

// InvalidateGuilds drops the cached guild set for a user.
func (r *redisRepository) InvalidateGuilds(ctx context.Context, input *InvalidateGuildsInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	if err := r.client.Del(ctx, guildsKey(input.UserID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached guilds: %w", err)
	}

	return nil
}
