package typing

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/unitychat/gateway/internal/repositories/typing Repository

import (
	"context"
)

// Repository defines the interface for the self-expiring per-channel typing
// state. The TTL on each channel's set is a safety net: even if a stop event
// is never delivered, the state clears itself.
type Repository interface {
	// AddTyper adds a user to a channel's typing set and refreshes its TTL
	AddTyper(ctx context.Context, input *AddTyperInput) error

	// RemoveTyper removes a user from a channel's typing set
	RemoveTyper(ctx context.Context, input *RemoveTyperInput) error

	// GetTypers returns the users currently typing in a channel
	GetTypers(ctx context.Context, input *GetTypersInput) ([]string, error)
}
