package rooms

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/unitychat/gateway/internal/services/rooms Service

import "context"

// Service is the room membership manager: it bootstraps a connection's rooms
// at handshake time and gates channel/DM room joins behind cached access
// decisions. Acknowledgments and denials are delivered to the requesting
// connection as gateway events.
type Service interface {
	// BootstrapConnection joins the personal room and all entitled guild
	// rooms; guild resolution failure degrades, it does not abort
	BootstrapConnection(ctx context.Context, input *BootstrapConnectionInput) (*BootstrapConnectionOutput, error)

	// JoinChannel joins a channel room after an access check
	JoinChannel(ctx context.Context, input *JoinChannelInput) error

	// LeaveChannel leaves a channel room; unconditional and idempotent
	LeaveChannel(ctx context.Context, input *LeaveChannelInput) error

	// JoinDM joins a DM room after a participancy check
	JoinDM(ctx context.Context, input *JoinDMInput) error

	// LeaveDM leaves a DM room; unconditional and idempotent
	LeaveDM(ctx context.Context, input *LeaveDMInput) error

	// JoinGuild joins a guild room after a membership check, e.g. after the
	// user accepts an invite mid-session
	JoinGuild(ctx context.Context, input *JoinGuildInput) error

	// LeaveGuild leaves a guild room; unconditional and idempotent
	LeaveGuild(ctx context.Context, input *LeaveGuildInput) error
}
