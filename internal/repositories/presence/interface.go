package presence

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/unitychat/gateway/internal/repositories/presence Repository

import (
	"context"
)

// Repository defines the interface for presence record storage. Records are
// TTL'd; the absence of a record is equivalent to offline.
type Repository interface {
	// SetOnline writes (or refreshes) an online record for a user
	SetOnline(ctx context.Context, input *SetOnlineInput) error

	// IsOnline reports whether an online record currently exists
	IsOnline(ctx context.Context, input *IsOnlineInput) (bool, error)

	// SetOffline removes the user's presence record
	SetOffline(ctx context.Context, input *SetOfflineInput) error
}
