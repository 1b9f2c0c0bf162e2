package presence

// PresenceError is a custom error type for presence tracking errors
type PresenceError string

// Error implements the error interface
func (e PresenceError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig       PresenceError = "config cannot be nil"
	ErrNilPresenceRepo PresenceError = "presence repository cannot be nil"
	ErrNilGuildsRepo   PresenceError = "guilds repository cannot be nil"
	ErrNilDispatcher   PresenceError = "dispatcher cannot be nil"
	ErrNilClock        PresenceError = "clock cannot be nil"
	ErrNilLogger       PresenceError = "logger cannot be nil"
	ErrEmptyUserID     PresenceError = "user ID cannot be empty"
)
