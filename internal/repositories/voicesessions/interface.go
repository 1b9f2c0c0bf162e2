package voicesessions

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/unitychat/gateway/internal/repositories/voicesessions Repository

import (
	"context"

	"github.com/unitychat/gateway/internal/models"
)

// Repository defines the interface for persisted voice sessions. The
// at-most-one-open-session invariant per (channel, user) is enforced by the
// voice coordinator, not assumed of the store.
type Repository interface {
	// CreateSession persists a new open session
	CreateSession(ctx context.Context, input *CreateSessionInput) error

	// CloseOpenSessions sets left-at on any open session for (channel, user)
	CloseOpenSessions(ctx context.Context, input *CloseOpenSessionsInput) error

	// CloseAllForUser closes every open session for a user across channels,
	// returning the sessions that were closed
	CloseAllForUser(ctx context.Context, input *CloseAllForUserInput) (*CloseAllForUserOutput, error)

	// UpdateFlags updates mute/deafen flags on the open session
	UpdateFlags(ctx context.Context, input *UpdateFlagsInput) error

	// GetOpenSessions returns the open sessions in a channel
	GetOpenSessions(ctx context.Context, input *GetOpenSessionsInput) ([]*models.VoiceSession, error)
}
