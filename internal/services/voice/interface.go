package voice

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/unitychat/gateway/internal/services/voice Service

import "context"

// Service coordinates voice session lifecycle per (user, channel):
// NotInVoice → InVoice → NotInVoice. It enforces the at-most-one-open-session
// invariant itself rather than assuming the store does.
type Service interface {
	// JoinVoice opens a session, joins the voice room, broadcasts the join
	// and sends the current participant list to the joining connection
	JoinVoice(ctx context.Context, input *JoinVoiceInput) error

	// LeaveVoice closes the session, leaves the room and broadcasts the
	// departure
	LeaveVoice(ctx context.Context, input *LeaveVoiceInput) error

	// UpdateVoiceState broadcasts new mute/deafen flags optimistically and
	// persists them asynchronously
	UpdateVoiceState(ctx context.Context, input *UpdateVoiceStateInput) error

	// HandleDisconnect closes every open session for the user; this cleanup
	// is unconditional, a dropped connection must not leave ghost occupants
	HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) error
}
