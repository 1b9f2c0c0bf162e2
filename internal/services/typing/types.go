package typing

type StartTypingInput struct {
	ConnID    string
	UserID    string
	Username  string
	ChannelID string
}

type StopTypingInput struct {
	ConnID    string
	UserID    string
	ChannelID string
}

type HandleDisconnectInput struct {
	ConnID string
}
