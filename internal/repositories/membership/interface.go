package membership

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/unitychat/gateway/internal/repositories/membership Repository

import (
	"context"
)

// Repository defines the interface for the shared guild membership cache.
// It sits between the in-process bounded cache and the relational store; the
// store remains the source of truth.
type Repository interface {
	// GetGuilds returns the cached guild id set for a user
	GetGuilds(ctx context.Context, input *GetGuildsInput) (*GetGuildsOutput, error)

	// SetGuilds caches a user's guild id set with a TTL
	SetGuilds(ctx context.Context, input *SetGuildsInput) error

	// InvalidateGuilds drops a user's cached guild id set
	InvalidateGuilds(ctx context.Context, input *InvalidateGuildsInput) error
}
