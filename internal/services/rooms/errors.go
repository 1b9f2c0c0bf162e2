package rooms

// RoomsError is a custom error type for room membership errors
type RoomsError string

// Error implements the error interface
func (e RoomsError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig          RoomsError = "config cannot be nil"
	ErrNilAccessRepo      RoomsError = "access repository cannot be nil"
	ErrNilMembershipRepo  RoomsError = "membership repository cannot be nil"
	ErrNilMembershipCache RoomsError = "membership cache cannot be nil"
	ErrNilGuildsRepo      RoomsError = "guilds repository cannot be nil"
	ErrNilDispatcher      RoomsError = "dispatcher cannot be nil"
	ErrNilLogger          RoomsError = "logger cannot be nil"
	ErrEmptyConnID        RoomsError = "connection ID cannot be empty"
	ErrEmptyUserID        RoomsError = "user ID cannot be empty"
	ErrEmptyResourceID    RoomsError = "resource ID cannot be empty"
)
