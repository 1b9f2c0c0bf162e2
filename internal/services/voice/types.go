package voice

type JoinVoiceInput struct {
	ConnID    string
	UserID    string
	Username  string
	ChannelID string
}

type LeaveVoiceInput struct {
	ConnID    string
	UserID    string
	ChannelID string
}

type UpdateVoiceStateInput struct {
	ConnID    string
	UserID    string
	ChannelID string
	Muted     bool
	Deafened  bool
}

type HandleDisconnectInput struct {
	ConnID string
	UserID string
}
