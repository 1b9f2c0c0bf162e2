package access

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/unitychat/gateway/internal/repositories/access Repository

import (
	"context"
)

// Repository defines the interface for the short-TTL access decision cache.
// Decisions may be stale up to their TTL; that staleness is an accepted
// consistency tradeoff, so a cached deny never outlives it.
type Repository interface {
	// GetDecision looks up a cached access decision
	GetDecision(ctx context.Context, input *GetDecisionInput) (*GetDecisionOutput, error)

	// SetDecision caches an access decision with a TTL
	SetDecision(ctx context.Context, input *SetDecisionInput) error
}
