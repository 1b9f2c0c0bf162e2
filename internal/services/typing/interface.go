package typing

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/unitychat/gateway/internal/services/typing Service

import "context"

// Service coordinates transient per-channel typing indicators with debounced
// auto-expiry. Repeated starts within the window re-arm a single timer, never
// stack timers, and never re-broadcast.
type Service interface {
	// StartTyping marks the user typing in a channel and arms the expiry
	StartTyping(ctx context.Context, input *StartTypingInput) error

	// StopTyping clears the typing state and broadcasts the stop
	StopTyping(ctx context.Context, input *StopTypingInput) error

	// HandleDisconnect cancels the connection's outstanding timers without
	// emitting stop events
	HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) error
}
