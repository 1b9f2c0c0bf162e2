package voice

// VoiceError is a custom error type for voice session coordination errors
type VoiceError string

// Error implements the error interface
func (e VoiceError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig        VoiceError = "config cannot be nil"
	ErrNilVoiceRepo     VoiceError = "voice session repository cannot be nil"
	ErrNilGuildsRepo    VoiceError = "guilds repository cannot be nil"
	ErrNilDispatcher    VoiceError = "dispatcher cannot be nil"
	ErrNilClock         VoiceError = "clock cannot be nil"
	ErrNilUUIDGenerator VoiceError = "UUID generator cannot be nil"
	ErrNilLogger        VoiceError = "logger cannot be nil"
	ErrEmptyConnID      VoiceError = "connection ID cannot be empty"
	ErrEmptyUserID      VoiceError = "user ID cannot be empty"
	ErrEmptyChannelID   VoiceError = "channel ID cannot be empty"
)
