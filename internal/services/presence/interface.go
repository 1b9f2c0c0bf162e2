package presence

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/unitychat/gateway/internal/services/presence Service

import "context"

// Service tracks who is online and broadcasts presence transitions to guild
// rooms. Disconnects are reconciled after a grace period so a tab refresh or
// a brief network blip does not flap the user's status.
type Service interface {
	// HandleConnect marks the user online and broadcasts the transition
	HandleConnect(ctx context.Context, input *HandleConnectInput) error

	// HandleDisconnect schedules offline reconciliation for the user
	HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) error
}
