package typing

// TypingError is a custom error type for typing coordination errors
type TypingError string

// Error implements the error interface
func (e TypingError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig      TypingError = "config cannot be nil"
	ErrNilTypingRepo  TypingError = "typing repository cannot be nil"
	ErrNilDispatcher  TypingError = "dispatcher cannot be nil"
	ErrNilLogger      TypingError = "logger cannot be nil"
	ErrEmptyConnID    TypingError = "connection ID cannot be empty"
	ErrEmptyChannelID TypingError = "channel ID cannot be empty"
)
